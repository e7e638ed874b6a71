package cli

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

func newManCommand(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:                   "man",
		Short:                 "Generates manpages",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Hidden:                true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := ManPage(root)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), page)
			return err
		},
	}
}

// ManPage renders the roff man page for root
func ManPage(root *cobra.Command) (string, error) {
	manPage, err := mcobra.NewManPage(1, root)
	if err != nil {
		return "", err
	}

	manPage = manPage.WithSection("Environment",
		"GEMINI_API_KEY (or GOOGLE_API_KEY) and OPENAI_API_KEY provide the API keys.\n"+
			"Every other setting can be given as MERHABA_<KEY>, e.g. MERHABA_PROVIDER=openai.")

	return manPage.Build(roff.NewDocument()), nil
}
