package main

import (
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"

	"github.com/hippo-protocol/hippo-protocol/pkg/env"
	"github.com/hippo-protocol/hippo-protocol/util/cliutil"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(-1)
	}
}

func run(args []string) error {
	env.SetVersionFromBuildInfo()
	return newApp().Run(args)
}

func newApp() *cli.App {
	app := &cli.App{
		Name:    "hippo-crypto",
		Usage:   "hippo identity and confidentiality toolkit",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity level (eg: warn, info, debug)",
				EnvVars: []string{"HIPPO_LOG_LEVEL", "LOG_LEVEL"},
			},
		},
		Before: func(cctx *cli.Context) error {
			_, err := cliutil.SetupSlog(cliutil.LogOptions{LogLevel: cctx.String("log-level")})
			return err
		},
	}
	app.Commands = []*cli.Command{
		cmdKey,
		cmdDID,
		cmdEncrypt,
		cmdDecrypt,
		cmdAES,
		cmdSign,
		cmdVerify,
		cmdSha256,
		cmdECDH,
		cmdCommit,
		cmdReveal,
		cmdKeystore,
		cmdServe,
	}
	return app
}

func printJSON(cctx *cli.Context, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cctx.App.Writer, string(b))
	return err
}

func printLine(cctx *cli.Context, s string) error {
	_, err := fmt.Fprintln(cctx.App.Writer, s)
	return err
}
