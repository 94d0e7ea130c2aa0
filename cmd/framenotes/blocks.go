package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/framenotes"
	"github.com/aretw0/framenotes/pkg/blocks"
	"github.com/aretw0/framenotes/pkg/media"
	"github.com/aretw0/framenotes/pkg/notes"
)

var (
	addText  string
	addMedia string
	addGlob  string

	moveUp   bool
	moveDown bool
	moveTo   int
)

func blockIndex(b *blocks.Editor, id string) int {
	for i, blk := range b.Blocks() {
		if blk.ID == id {
			return i
		}
	}
	return -1
}

var addCmd = &cobra.Command{
	Use:   "add [id]",
	Short: "Append a text, image or video block to a note",
	Long: `Append blocks to a note. Text is added as is; media files are embedded
into the note as data URLs. --glob accepts doublestar patterns such as
'photos/**/*.{png,jpg}' and adds one block per matching file.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		editNote(ctx, env, args[0], func(e *notes.Editor) error {
			switch {
			case addText != "":
				b := e.Blocks().Append(framenotes.BlockText, addText)
				fmt.Println(b.ID)
			case addMedia != "":
				return addFile(e, addMedia)
			case addGlob != "":
				files, err := media.Glob(addGlob)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					return fmt.Errorf("no files match %s", addGlob)
				}
				for _, f := range files {
					if err := addFile(e, f); err != nil {
						if errors.Is(err, media.ErrUnsupported) {
							slog.Warn("skipping file", "path", f, "error", err)
							continue
						}
						return err
					}
				}
			default:
				return fmt.Errorf("one of --text, --media or --glob is required")
			}
			return nil
		})
	},
}

func addFile(e *notes.Editor, path string) error {
	typ, content, err := media.ImportFile(path)
	if err != nil {
		return err
	}
	b := e.Blocks().Append(typ, content)
	fmt.Printf("%s %s %s\n", b.ID, typ, path)
	return nil
}

var moveCmd = &cobra.Command{
	Use:   "move [id] [block]",
	Short: "Reorder a block",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		editNote(ctx, env, args[0], func(e *notes.Editor) error {
			b := e.Blocks()
			from := blockIndex(b, args[1])
			if from < 0 {
				return fmt.Errorf("no block with id %s", args[1])
			}
			switch {
			case moveUp:
				b.Move(args[1], -1)
			case moveDown:
				b.Move(args[1], 1)
			case cmd.Flags().Changed("to"):
				// Walk the block through every position like a drag gesture.
				b.BeginDrag(from)
				step := 1
				if moveTo < from {
					step = -1
				}
				for i := from; i != moveTo; {
					i += step
					if !b.DragEnter(i) {
						break
					}
				}
				b.EndDrag()
			default:
				return fmt.Errorf("one of --up, --down or --to is required")
			}
			return nil
		})
	},
}

var rmblockCmd = &cobra.Command{
	Use:   "rmblock [id] [block]",
	Short: "Remove a block from a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		env := mustEnv(ctx)
		defer env.Close()

		editNote(ctx, env, args[0], func(e *notes.Editor) error {
			if !e.Blocks().Delete(args[1]) {
				return fmt.Errorf("no block with id %s", args[1])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(addCmd, moveCmd, rmblockCmd)
	addCmd.Flags().StringVar(&addText, "text", "", "Text content")
	addCmd.Flags().StringVar(&addMedia, "media", "", "Image or video file to embed")
	addCmd.Flags().StringVar(&addGlob, "glob", "", "Embed every file matching the pattern")
	moveCmd.Flags().BoolVar(&moveUp, "up", false, "Swap with the previous block")
	moveCmd.Flags().BoolVar(&moveDown, "down", false, "Swap with the next block")
	moveCmd.Flags().IntVar(&moveTo, "to", 0, "Move to this index")
	moveCmd.MarkFlagsMutuallyExclusive("up", "down", "to")
	addCmd.MarkFlagsMutuallyExclusive("text", "media", "glob")
}
