package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

const maxAvatarBytes = 5 << 20

func (a *App) avatarCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <image file>",
		Short: "Upload a profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(data) > maxAvatarBytes {
				return fmt.Errorf("%s is larger than %d MB", args[0], maxAvatarBytes>>20)
			}

			up, err := a.auth.UploadAvatar(cmd.Context(), http.DetectContentType(data), data)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(a.out, "Avatar uploaded (%s)\n", up.Key)
			return nil
		},
	}
}
