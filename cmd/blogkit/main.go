// Blogkit serves the blog API and manages its database and roles.
//
// Usage:
//
//	# Apply migrations and start the HTTP API
//	blogkit serve
//
//	# Inspect or roll back migrations
//	blogkit migrate status
//	blogkit migrate down
//
//	# Assign a role to a user
//	blogkit role set alice moderator
//
// Configuration is read from the environment and an optional .env file.
package main

func main() {
	Execute()
}
