package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pipemene/bluehome-os/internal/core/order"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
	"github.com/pipemene/bluehome-os/internal/wire"
)

// WorkCmd returns the work command
func WorkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "work",
		Short: "Record work on an assigned order",
		Long: `Record evidence, materials, notes and the tenant's signature for an order
assigned to you, then save it or close the order with a PDF report.

Edits are kept in a local draft until they are saved or the order is closed.

Typical flow:
  bluehome work add-photo BH-0007 --phase before antes.jpg
  bluehome work add-photo BH-0007 --phase after despues1.jpg despues2.jpg
  bluehome work set BH-0007 --materials "Tubo PVC" --notes "Sin fugas"
  bluehome work sign BH-0007 firma.png
  bluehome work close BH-0007 --out acta.pdf`,
	}

	cmd.AddCommand(workShowCmd())
	cmd.AddCommand(workAddPhotoCmd())
	cmd.AddCommand(workSetCmd())
	cmd.AddCommand(workSignCmd())
	cmd.AddCommand(workClearSignatureCmd())
	cmd.AddCommand(workSaveCmd())
	cmd.AddCommand(workCloseCmd())
	cmd.AddCommand(workDiscardCmd())
	cmd.AddCommand(workDraftsCmd())

	return cmd
}

func workShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|radicado>",
		Short: "Show the draft for an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := actorContext(cmd)
			if err != nil {
				return err
			}
			_, err = wire.WorkAdapterWithOutput(cmd.OutOrStdout()).Show(ctx, args[0])
			return err
		},
	}
}

func workAddPhotoCmd() *cobra.Command {
	var phase string

	cmd := &cobra.Command{
		Use:   "add-photo <id|radicado> <file>...",
		Short: "Add evidence photos to a phase",
		Long: fmt.Sprintf(`Upload photos and append them to the before, during or after gallery.
At most %d files are taken per call.`, primary.MaxPhotosPerAdd),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := order.ParsePhase(phase)
			if err != nil {
				return err
			}
			paths := args[1:]
			if len(paths) > primary.MaxPhotosPerAdd {
				fmt.Fprintf(cmd.ErrOrStderr(), "only the first %d files are used\n", primary.MaxPhotosPerAdd)
				paths = paths[:primary.MaxPhotosPerAdd]
			}
			files, err := loadFiles(wire.FileLoader(), paths)
			if err != nil {
				return err
			}

			ctx, err := actorContext(cmd)
			if err != nil {
				return err
			}
			_, err = wire.WorkAdapterWithOutput(cmd.OutOrStdout()).AddPhotos(ctx, primary.AddPhotosRequest{
				OrderID: args[0],
				Phase:   p,
				Files:   files,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&phase, "phase", "p", "", "before, during or after (required)")
	_ = cmd.MarkFlagRequired("phase")
	return cmd
}

func workSetCmd() *cobra.Command {
	var materials, notes, email string

	cmd := &cobra.Command{
		Use:   "set <id|radicado>",
		Short: "Edit materials, notes or the report recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := primary.UpdateDraftRequest{OrderID: args[0]}
			if cmd.Flags().Changed("materials") {
				req.Materials = &materials
			}
			if cmd.Flags().Changed("notes") {
				req.Notes = &notes
			}
			if cmd.Flags().Changed("email") {
				req.Email = &email
			}
			if req.Materials == nil && req.Notes == nil && req.Email == nil {
				return fmt.Errorf("nothing to set: pass --materials, --notes or --email")
			}

			ctx, err := actorContext(cmd)
			if err != nil {
				return err
			}
			_, err = wire.WorkAdapterWithOutput(cmd.OutOrStdout()).Update(ctx, req)
			return err
		},
	}

	cmd.Flags().StringVar(&materials, "materials", "", "materials used")
	cmd.Flags().StringVar(&notes, "notes", "", "technician notes")
	cmd.Flags().StringVar(&email, "email", "", "tenant email for the report")
	return cmd
}

func workSignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign <id|radicado> <image|->",
		Short: "Capture the tenant's signature",
		Long: `Store the tenant's signature from an image (PNG, JPEG, GIF or WebP; "-" reads
stdin). The image is trimmed to its ink and saved on the order immediately.
A blank image is rejected.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[1] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[1])
			}
			if err != nil {
				return fmt.Errorf("failed to read signature: %w", err)
			}

			ctx, err := actorContext(cmd)
			if err != nil {
				return err
			}
			return wire.WorkAdapterWithOutput(cmd.OutOrStdout()).Sign(ctx, args[0], data)
		},
	}
}

func workClearSignatureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-signature <id|radicado>",
		Short: "Clear the draft signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := actorContext(cmd)
			if err != nil {
				return err
			}
			return wire.WorkAdapterWithOutput(cmd.OutOrStdout()).ClearSignature(ctx, args[0])
		},
	}
}

func workSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <id|radicado>",
		Short: "Save the work record and mark the order as awaiting signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := actorContext(cmd)
			if err != nil {
				return err
			}
			_, err = wire.WorkAdapterWithOutput(cmd.OutOrStdout()).Save(ctx, args[0])
			return err
		},
	}
}

func workCloseCmd() *cobra.Command {
	var email, out string

	cmd := &cobra.Command{
		Use:   "close <id|radicado>",
		Short: "Generate the report, close the order and email the tenant",
		Long: `Generate the PDF report, publish it, mark the order closed and email it to
the tenant. An email failure is reported but the order stays closed.

Examples:
  bluehome work close BH-0007
  bluehome work close BH-0007 --email ana@example.com --out acta.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := primary.CloseRequest{OrderID: args[0]}
			if cmd.Flags().Changed("email") {
				req.Email = &email
			}

			ctx, err := actorContext(cmd)
			if err != nil {
				return err
			}
			_, err = wire.WorkAdapterWithOutput(cmd.OutOrStdout()).Close(ctx, req, out)
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "send the report here instead of the draft's recipient")
	cmd.Flags().StringVarP(&out, "out", "o", "", "also write the PDF to this file")
	return cmd
}

func workDiscardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard <id>",
		Short: "Drop the local draft of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.WorkAdapterWithOutput(cmd.OutOrStdout()).Discard(cmd.Context(), args[0])
		},
	}
}

func workDraftsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drafts",
		Short: "List local drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.WorkAdapterWithOutput(cmd.OutOrStdout()).Drafts(cmd.Context())
			return err
		},
	}
}
