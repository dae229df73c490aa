// Package blog is the domain layer of the blog: typed stores over the posts,
// users and search_logs tables, the search facade, accounts and post editing.
//
// Every table is reached through a typed store with a constant table name, so
// no caller supplied identifier reaches SQL. Stores wrap a *query.Builder and
// can be rebuilt over a transaction builder:
//
//	err := b.Transaction(ctx, func(ctx context.Context, tx *query.Builder) error {
//		return blog.NewPosts(tx).Delete(ctx, id)
//	})
//
// Services check permissions with an *rbac.Authorizer and validate input with
// the rule engine before writing. Search swallows store failures, logging them
// and returning empty results; PostService and Auth return them.
package blog
