package cmd

import (
	jwtPkg "AgeGenderDetector/pkg/jwt"
	"AgeGenderDetector/pkg/log"
	websocketPkg "AgeGenderDetector/pkg/websocket"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var (
	probeURL   string
	probeToken string
)

var probeCmd = &cobra.Command{
	Use:   "probe IMAGE...",
	Short: "Send images to a running server over /ws/detect and print the detections",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		header := http.Header{}
		if probeToken != "" {
			header.Set("Cookie", (&http.Cookie{Name: jwtPkg.SessionCookieName, Value: probeToken}).String())
		}

		client := websocketPkg.NewDetectClient(probeURL, header, log.NewLogger())
		defer client.Close()

		out := cmd.OutOrStdout()
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			res, err := client.Detect(data)
			if err != nil {
				fmt.Fprintf(out, "%s: %v\n", path, err)
				continue
			}

			if len(res.Results) == 0 {
				fmt.Fprintf(out, "%s: no faces\n", path)
			}
			for _, d := range res.Results {
				fmt.Fprintf(out, "%s: %v %s\n", path, d.Box, d.Label())
			}
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeURL, "url", "ws://localhost:3000/ws/detect", "detector websocket endpoint")
	probeCmd.Flags().StringVar(&probeToken, "token", os.Getenv("AGEGENDER_TOKEN"), "session token from /login")
}
