package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/elliotBraem/near-protocol-rewards/services/crosscheck/report"
	"github.com/elliotBraem/near-protocol-rewards/validator"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const exitCodeInvalidPair = 2

// appVersion should be populated at build time using ldflags
// Usage examples:
// Linux/macOS:
//
//	go build -v -ldflags="-X main.appVersion=$(git describe --all | cut -c7-32)
var appVersion = "undefined"

var (
	helpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
VERSION:
   {{.Version}}
   {{end}}
`

	log = logger.GetOrCreate("crosscheck")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name:  "log-level",
		Usage: "This flag specifies the logger `level(s)`, for example *:INFO or *:DEBUG.",
		Value: "*:" + logger.LogInfo.String(),
	}
	// githubFile defines the GitHub snapshot record
	githubFile = cli.StringFlag{
		Name:  "github",
		Usage: "The `filepath` of the JSON GitHub snapshot record.",
	}
	// nearFile defines the NEAR snapshot record
	nearFile = cli.StringFlag{
		Name:  "near",
		Usage: "The `filepath` of the JSON NEAR snapshot record.",
	}
	// thresholdsFile defines the optional TOML file holding a [Thresholds] table
	thresholdsFile = cli.StringFlag{
		Name:  "thresholds",
		Usage: "The optional `filepath` of a TOML file holding a [Thresholds] table. Unset keys keep their defaults.",
	}
)

func main() {
	app := cli.NewApp()
	cli.AppHelpTemplate = helpTemplate
	app.Name = "Cross-source checker"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "This tool validates a GitHub snapshot record against a NEAR snapshot record and prints the findings"
	app.Flags = []cli.Flag{
		logLevel,
		githubFile,
		nearFile,
		thresholdsFile,
	}
	app.Authors = []cli.Author{
		{
			Name:  "NEAR protocol rewards contributors",
			Email: "",
		},
	}

	app.Action = run

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	githubPath := ctx.GlobalString(githubFile.Name)
	nearPath := ctx.GlobalString(nearFile.Name)
	if githubPath == "" || nearPath == "" {
		return fmt.Errorf("both --%s and --%s are required", githubFile.Name, nearFile.Name)
	}

	github, err := report.ReadGitHubMetrics(githubPath)
	if err != nil {
		return err
	}
	near, err := report.ReadNearMetrics(nearPath)
	if err != nil {
		return err
	}

	overrides, err := report.ReadThresholdOverrides(ctx.GlobalString(thresholdsFile.Name))
	if err != nil {
		return err
	}

	err = validator.CheckInput(github, near)
	if err != nil {
		return err
	}

	crossValidator, err := validator.NewCrossSourceValidator(validator.ArgsCrossSourceValidator{
		Overrides: overrides,
	})
	if err != nil {
		return err
	}

	thresholds := crossValidator.Thresholds()
	log.Debug("validating pair",
		"github", githubPath, "near", nearPath,
		"max time drift", thresholds.MaxTimeDrift,
		"max data age", thresholds.MaxDataAge)

	result := crossValidator.Validate(github, near)
	err = report.Render(os.Stdout, result)
	if err != nil {
		return err
	}

	if !result.IsValid {
		return cli.NewExitError("", exitCodeInvalidPair)
	}

	return nil
}
