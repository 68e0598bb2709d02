package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipemene/bluehome-os/internal/app"
	"github.com/pipemene/bluehome-os/internal/core/media"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
	"github.com/pipemene/bluehome-os/internal/wire"
)

// RequestCmd returns the request command
func RequestCmd() *cobra.Command {
	var req primary.IntakeRequest
	var photos, videos []string
	var notify bool
	var notifyKey, notifyUser string

	cmd := &cobra.Command{
		Use:   "request",
		Short: "File a tenant repair request",
		Long: `File a new repair request. No login is needed. Up to two photos and one
video are attached; extra files are ignored.

Examples:
  bluehome request --code APT-101 --name "Ana Gómez" --phone 3001234567 \
    --description "Fuga de agua en el baño" --photo fuga.jpg
  bluehome request --code APT-7 --name Luis --phone 300 --description "Revisión" \
    --type mantenimiento --notify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(photos) > app.MaxIntakePhotos {
				photos = photos[:app.MaxIntakePhotos]
			}
			if len(videos) > 1 {
				videos = videos[:1]
			}
			loader := wire.FileLoader()
			var err error
			if req.Photos, err = loadFiles(loader, photos); err != nil {
				return err
			}
			if req.Videos, err = loadFiles(loader, videos); err != nil {
				return err
			}

			if notify {
				n := wire.Config().Notify
				if notifyKey != "" {
					n.APIKey = notifyKey
				}
				if notifyUser != "" {
					n.UserID = notifyUser
				}
				if !n.Enabled() {
					return fmt.Errorf("--notify needs notify.api_key and notify.user_id (config or flags)")
				}
				req.Notify = &primary.NotifyOptions{APIKey: n.APIKey, UserID: n.UserID}
			}

			_, err = wire.IntakeAdapterWithOutput(cmd.OutOrStdout()).Submit(cmd.Context(), req)
			return err
		},
	}

	cmd.Flags().StringVar(&req.Code, "code", "", "property code (required)")
	cmd.Flags().StringVar(&req.Name, "name", "", "tenant name (required)")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "tenant phone (required)")
	cmd.Flags().StringVar(&req.Email, "email", "", "tenant email; the closing report is sent here")
	cmd.Flags().StringVar(&req.Type, "type", "reparacion", "reparacion, mantenimiento or otro")
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "what needs fixing (required)")
	cmd.Flags().StringSliceVar(&photos, "photo", nil, "photo file (repeatable, max 2)")
	cmd.Flags().StringSliceVar(&videos, "video", nil, "video file (only the first is used)")
	cmd.Flags().BoolVar(&notify, "notify", false, "send a chat notification after filing")
	cmd.Flags().StringVar(&notifyKey, "notify-api-key", "", "chat relay API key (overrides config)")
	cmd.Flags().StringVar(&notifyUser, "notify-user-id", "", "chat relay user id (overrides config)")
	return cmd
}

func loadFiles(loader secondary.FileLoader, paths []string) ([]media.File, error) {
	files := make([]media.File, 0, len(paths))
	for _, p := range paths {
		f, err := loader.Load(p)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, nil
}
