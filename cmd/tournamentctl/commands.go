package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/riskibarqy/tournament-data/internal/app"
	"github.com/riskibarqy/tournament-data/internal/domain/document"
	"github.com/riskibarqy/tournament-data/internal/infrastructure/credentials"
	"github.com/riskibarqy/tournament-data/internal/platform/id"
	"github.com/spf13/cobra"
)

type containerLoader func() (*app.Container, error)

func newRootCommand(load containerLoader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "tournamentctl",
		Short:         "Operate on the tournament data document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(
		newConfigCommand(load),
		newRepoCommand(load),
		newRequestCommand(load, "get", "Read a path from the data API"),
		newRequestCommand(load, "post", "Send a POST with a JSON body"),
		newRequestCommand(load, "put", "Upsert a record with a JSON patch"),
		newRequestCommand(load, "delete", "Remove a record"),
		newCreateCommand(load),
		newPointsCommand(load),
	)
	return root
}

func newConfigCommand(load containerLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write the local credential store",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one stored value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := load()
				if err != nil {
					return err
				}
				value, ok, err := c.Credentials.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s is not set", args[0])
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
				return err
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Store one value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := load()
				if err != nil {
					return err
				}
				return c.Credentials.Set(cmd.Context(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "delete <key>",
			Short: "Remove one stored value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := load()
				if err != nil {
					return err
				}
				return c.Credentials.Delete(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List keys that hold a value",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := load()
				if err != nil {
					return err
				}
				keys, err := c.Credentials.SetKeys(cmd.Context())
				if err != nil {
					return err
				}
				for _, key := range keys {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), key); err != nil {
						return err
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List every accepted key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(credentials.Keys, "\n"))
				return err
			},
		},
	)
	return cmd
}

func newRepoCommand(load containerLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Inspect the content repository",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Check that the repository is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := load()
			if err != nil {
				return err
			}
			result := c.Content.TestConnection(cmd.Context())
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("repository connection failed: %s", result.Error)
			}
			return nil
		},
	})
	return cmd
}

func newRequestCommand(load containerLoader, verb, short string) *cobra.Command {
	use := verb + " <path>"
	args := cobra.ExactArgs(1)
	if verb == "post" || verb == "put" {
		use = verb + " <path> <json>"
		args = cobra.ExactArgs(2)
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load()
			if err != nil {
				return err
			}

			var body any
			if len(args) == 2 {
				if err := document.JSON.UnmarshalFromString(args[1], &body); err != nil {
					return fmt.Errorf("parse json body: %w", err)
				}
			}

			ctx := cmd.Context()
			path := args[0]
			switch verb {
			case "get":
				resp, err := c.Data.Get(ctx, path)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp.Data)
			case "post":
				resp, err := c.Data.Post(ctx, path, body)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp.Data)
			case "put":
				resp, err := c.Data.Put(ctx, path, body)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp.Data)
			default:
				resp, err := c.Data.Delete(ctx, path)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp.Data)
			}
		},
	}
}

// newCreateCommand adds a record under the next free id of its collection.
func newCreateCommand(load containerLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "create <collection> <json>",
		Short: "Add a record under the next free id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := document.ParseCollection(args[0])
			if err != nil {
				return err
			}
			if collection.IsSingleton() {
				return fmt.Errorf("%s has no ids; use put /settings", collection)
			}

			var patch map[string]any
			if err := document.JSON.UnmarshalFromString(args[1], &patch); err != nil {
				return fmt.Errorf("parse json body: %w", err)
			}

			c, err := load()
			if err != nil {
				return err
			}
			snapshot, err := c.Store.Fetch(cmd.Context())
			if err != nil {
				return err
			}
			if snapshot.Degraded {
				return fmt.Errorf("document unavailable; refusing to pick an id from the default document")
			}

			next := id.NewSequenceGenerator().NextID(snapshot.Document.IDs(collection))
			patch["id"] = next

			resp, err := c.Data.Put(cmd.Context(), collectionPath(collection, next), patch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp.Data)
		},
	}
}

func newPointsCommand(load containerLoader) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "points [team-id]",
		Short: "Fetch wotstat points for one team or, with --all, every team",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return fmt.Errorf("pass either a team id or --all")
			}

			c, err := load()
			if err != nil {
				return err
			}
			if all {
				reports, err := c.Points.AllTeamPoints(cmd.Context())
				if reports == nil && err != nil {
					return err
				}
				if printErr := printJSON(cmd.OutOrStdout(), reports); printErr != nil {
					return printErr
				}
				return err
			}

			teamID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid team id %q", args[0])
			}
			report, err := c.Points.TeamPoints(cmd.Context(), teamID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "fetch points for every team")
	return cmd
}

func collectionPath(c document.Collection, recordID int64) string {
	segment := string(c)
	if c == document.CollectionRuleCards {
		segment = "rules/cards"
	}
	return "/" + segment + "/" + strconv.FormatInt(recordID, 10)
}

func printJSON(w io.Writer, v any) error {
	raw, err := document.JSON.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
