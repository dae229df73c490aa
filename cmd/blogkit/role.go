package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/blogkit/pkg/config"
	"github.com/dmitrymomot/blogkit/pkg/logger"
	"github.com/dmitrymomot/blogkit/pkg/rbac"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Inspect roles and assign them to users",
}

var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the role hierarchy with effective permissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg appConfig
		if err := config.Load(&cfg); err != nil {
			return err
		}
		h, err := loadHierarchy(commandContext(cmd), cfg.RolesFile)
		if err != nil {
			return err
		}
		return printHierarchy(cmd, h)
	},
}

// roleSetCmd bypasses the manage_users check; it is the way to create the
// first administrator.
var roleSetCmd = &cobra.Command{
	Use:   "set <username> <role>",
	Short: "Assign a role to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		username, role := args[0], args[1]
		if !a.authz.Hierarchy().Valid(role) {
			return fmt.Errorf("%w: %q", rbac.ErrUnknownRole, role)
		}
		u, err := a.users.ByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("user %q: %w", username, err)
		}
		if err := a.authz.SetRole(ctx, u.ID, role); err != nil {
			return err
		}

		a.log.InfoContext(ctx, "role assigned from cli", logger.ActorID(u.ID), logger.Role(role))
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Username, role)
		return nil
	},
}

func init() {
	roleCmd.AddCommand(roleListCmd, roleSetCmd)
	rootCmd.AddCommand(roleCmd)
}

func printHierarchy(cmd *cobra.Command, h *rbac.Hierarchy) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROLE\tLEVEL\tPERMISSIONS")
	for _, name := range h.Roles() {
		level, _ := h.Level(name)
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, level, strings.Join(h.Permissions(name), ", "))
	}
	return w.Flush()
}
