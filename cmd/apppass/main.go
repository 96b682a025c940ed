// Package main provides the App Pass command-line tool. It wires the
// SDK to a native host provider so the entitlement check and the
// activation flow can be exercised outside a browser-extension runtime.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/chrome-stats/app-pass-sdk/internal/browser"
	"github.com/chrome-stats/app-pass-sdk/internal/buildinfo"
	"github.com/chrome-stats/app-pass-sdk/internal/config"
	"github.com/chrome-stats/app-pass-sdk/internal/host"
	"github.com/chrome-stats/app-pass-sdk/internal/logging"
	"github.com/chrome-stats/app-pass-sdk/internal/util"
	"github.com/chrome-stats/app-pass-sdk/sdk/apppass"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// init initializes the shared logger setup.
func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

func main() {
	var activate bool
	var yes bool
	var configPath string
	var endpoint string

	flag.BoolVar(&activate, "activate", false, "Request permission, probe the status, and open the activation page")
	flag.BoolVar(&yes, "yes", false, "Approve permission requests without prompting")
	flag.StringVar(&configPath, "config", "config.yaml", "Configure File Path")
	flag.StringVar(&endpoint, "endpoint", "", "Override the App Pass service base URL")
	flag.Parse()

	// A local .env may carry machine-specific settings during development.
	_ = godotenv.Load()

	cfg, err := config.LoadConfigOptional(configPath, true)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if endpoint == "" {
		endpoint = cfg.Endpoint
	}

	logging.SetDebug(cfg.Debug)
	if err = logging.ConfigureLogOutput(cfg.LogDir, cfg.LoggingToFile); err != nil {
		log.Fatalf("configure log output failed: %v", err)
	}

	log.Debugf("app-pass-sdk %s (%s, built %s)", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)

	hostOpts := host.Options{
		GrantsPath: cfg.GrantsFile,
		SelfID:     cfg.ExtensionID,
	}
	if yes {
		hostOpts.Prompt = func(string) bool { return true }
	}
	provider, err := host.NewNative(hostOpts)
	if err != nil {
		log.Fatalf("create host provider failed: %v", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatalf("create cookie jar failed: %v", err)
	}
	httpClient := util.SetProxy(cfg.ProxyURL, &http.Client{Jar: jar})

	client, err := apppass.NewClient(apppass.Options{
		Endpoint:   endpoint,
		Host:       provider,
		HTTPClient: httpClient,
		Cookie:     cfg.Cookie,
	})
	if err != nil {
		log.Fatalf("create client failed: %v", err)
	}

	ctx := context.Background()
	var result *apppass.Result
	if activate {
		if !browser.IsAvailable() {
			log.Warn("no browser available, the activation page may not open")
		}
		result = client.ActivateAppPass(ctx)
	} else {
		result = client.CheckAppPass(ctx)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode result failed: %v", err)
	}
	fmt.Println(string(out))

	if result.Status == apppass.StatusErr || result.Status == apppass.StatusUnknownError {
		os.Exit(1)
	}
}
