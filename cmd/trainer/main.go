// Command trainer runs the offline training pipeline: it generates a
// synthetic population, fits the scoring model and writes the trained state
// to a model file the API server can load at startup.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/creditbridge/scoring-service/internal/ml"
	"github.com/creditbridge/scoring-service/internal/storage"
)

var (
	samples    = 5000
	seed       = int64(42)
	modelPath  = "model.json"
	hmacSecret = "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"
	debug      = false

	samplesFlag = &cli.IntFlag{
		Name:        "samples",
		Usage:       "Size of the synthetic training population",
		Value:       samples,
		Destination: &samples,
	}

	seedFlag = &cli.Int64Flag{
		Name:        "seed",
		Usage:       "Random seed; the same seed reproduces the same model",
		Value:       seed,
		Destination: &seed,
	}

	modelPathFlag = &cli.StringFlag{
		Name:        "model",
		Usage:       "Path of the model state file to write",
		Value:       modelPath,
		Destination: &modelPath,
	}

	hmacSecretFlag = &cli.StringFlag{
		Name:        "hmac-secret",
		Usage:       "Secret signing the persisted model state (must match the server's HMAC_SECRET)",
		Value:       hmacSecret,
		Destination: &hmacSecret,
		EnvVars:     []string{"HMAC_SECRET"},
	}

	debugFlag = &cli.BoolFlag{
		Name:        "debug",
		Usage:       "Prints verbose logs (optional, default: false)",
		Destination: &debug,
	}
)

func main() {
	app := &cli.App{
		Name:  "trainer",
		Usage: "Train the credit scoring model offline",
		Flags: []cli.Flag{
			samplesFlag,
			seedFlag,
			modelPathFlag,
			hmacSecretFlag,
			debugFlag,
		},
		Action: train,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func train(c *cli.Context) error {
	logger := log.New()
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	store, err := storage.NewFSStore(modelPath)
	if err != nil {
		return err
	}

	engine := ml.NewEngine(store, hmacSecret, logger)
	report, err := engine.Train(samples, seed)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
