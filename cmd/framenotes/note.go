package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/framenotes"
	"github.com/aretw0/framenotes/pkg/notes"
)

var (
	newTitle  string
	newTexts  []string
	newPinned bool
	newHidden bool
	showJSON  bool
)

// editNote opens id in the editor, applies fn and leaves through Back so
// the change is saved before the process exits.
func editNote(ctx context.Context, env *framenotes.Env, id string, fn func(*notes.Editor) error) {
	e, ok, err := env.App.Open(ctx, id)
	if err != nil {
		fatal("Failed to open note", err)
	}
	if !ok {
		fatal("Failed to open note", fmt.Errorf("no note with id %s", id))
	}
	if err := fn(e); err != nil {
		e.Discard()
		fatal("Failed to edit note", err)
	}
	if _, err := env.App.Back(ctx); err != nil {
		fatal("Failed to save note", err)
	}
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		e, err := env.App.NewNote(ctx)
		if err != nil {
			fatal("Failed to create note", err)
		}
		e.SetTitle(newTitle)
		for _, text := range newTexts {
			e.Blocks().Append(framenotes.BlockText, text)
		}
		if newPinned {
			e.SetPinned(true)
		}
		if newHidden {
			e.SetHidden(true)
		}
		if _, err := env.App.Back(ctx); err != nil {
			fatal("Failed to save note", err)
		}
		if e.ID() == "" {
			fmt.Fprintln(os.Stderr, "Empty note discarded.")
			return
		}
		fmt.Println(e.ID())
	},
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		n, ok := env.Library.Get(args[0])
		if !ok {
			fatal("Error reading note", fmt.Errorf("no note with id %s", args[0]))
		}

		if showJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(n); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		fmt.Printf("# %s\n", n.Title)
		fmt.Printf("id: %s  created: %s  updated: %s  pinned: %t  hidden: %t\n\n",
			n.ID, n.CreatedAt.Local().Format("2006-01-02 15:04"), n.UpdatedAt.Local().Format("2006-01-02 15:04"), n.IsPinned, n.IsHidden)
		for i, b := range n.Blocks {
			switch b.Type {
			case framenotes.BlockText:
				fmt.Printf("[%d] %s\n%s\n\n", i, b.ID, b.Content)
			default:
				fmt.Printf("[%d] %s <%s, %d bytes, %d drawings>\n\n", i, b.ID, b.Type, len(b.Content), len(b.Drawings))
			}
		}
	},
}

var titleCmd = &cobra.Command{
	Use:   "title [id] [title]",
	Short: "Rename a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		editNote(ctx, env, args[0], func(e *notes.Editor) error {
			e.SetTitle(args[1])
			return nil
		})
	},
}

// flagCommand builds the pin/unpin/hide/unhide commands.
func flagCommand(use, short string, apply func(*notes.Editor)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			env := mustEnv(ctx)
			defer env.Close()

			editNote(ctx, env, args[0], func(e *notes.Editor) error {
				apply(e)
				return nil
			})
		},
	}
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		ok, err := env.App.Delete(ctx, args[0])
		if err != nil {
			fatal("Error deleting note", err)
		}
		if !ok {
			fatal("Error deleting note", fmt.Errorf("no note with id %s", args[0]))
		}
		fmt.Printf("Note deleted: %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(newCmd, showCmd, titleCmd, deleteCmd)
	rootCmd.AddCommand(
		flagCommand("pin", "Pin a note to the top of the list", func(e *notes.Editor) { e.SetPinned(true) }),
		flagCommand("unpin", "Unpin a note", func(e *notes.Editor) { e.SetPinned(false) }),
		flagCommand("hide", "Move a note to the hidden list", func(e *notes.Editor) { e.SetHidden(true) }),
		flagCommand("unhide", "Move a note back to the regular list", func(e *notes.Editor) { e.SetHidden(false) }),
	)

	newCmd.Flags().StringVarP(&newTitle, "title", "t", "", "Note title")
	newCmd.Flags().StringArrayVar(&newTexts, "text", nil, "Add a text block (repeatable)")
	newCmd.Flags().BoolVar(&newPinned, "pin", false, "Pin the note")
	newCmd.Flags().BoolVar(&newHidden, "hide", false, "Create the note hidden")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
