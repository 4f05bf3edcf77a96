package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spindleworks/formloom/internal/client"
	"github.com/spindleworks/formloom/internal/config"
	"github.com/spindleworks/formloom/internal/engine"
	"github.com/spindleworks/formloom/internal/headers"
	"github.com/spindleworks/formloom/internal/logging"
	"github.com/spindleworks/formloom/internal/names"
	"github.com/spindleworks/formloom/internal/scheduler"
	"github.com/spindleworks/formloom/internal/schema"
)

func newRunCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape the form, generate the batch and submit it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return runBatch(cmd, cfg)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "formloom.yaml", "run config file")
	return cmd
}

func runBatch(cmd *cobra.Command, cfg *config.Config) error {
	log := logging.New(cfg.Debug, cfg.LogFile)
	defer log.Sync()

	runID := uuid.NewString()
	log.Info("starting run",
		zap.String("run_id", runID),
		zap.String("form_url", cfg.FormURL),
		zap.Int("count", cfg.Count),
	)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	if len(cfg.Proxies) > 0 {
		client.SetProxyList(cfg.Proxies)
		log.Info("using proxies", zap.Int("proxies", len(cfg.Proxies)))
	}
	headers.InitProfilePool(256)

	// Ctrl-C aborts cooperatively: no new group starts, in-flight
	// deliveries settle.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sub, err := client.NewSubmitter(cfg.FormURL, cfg.TargetRPS)
	if err != nil {
		return err
	}
	defer sub.Close()

	page, err := sub.Fetch(ctx, cfg.FormURL)
	if err != nil {
		return err
	}
	form, err := schema.Parse(cfg.FormURL, page)
	if err != nil {
		return err
	}
	applyWeights(form, cfg.Weights)
	log.Info("scraped form", zap.String("title", form.Title), zap.Int("questions", len(form.Questions)))

	sink := func(e scheduler.Entry) {
		line, _ := json.Marshal(e)
		fmt.Println(string(line))
	}

	result, err := engine.Run(ctx, engine.Config{
		Questions:   form.Questions,
		Count:       cfg.Count,
		Overrides:   cfg.OverridePools(),
		Names:       names.Generate(rng, cfg.Count),
		Endpoint:    form.ResponseURL,
		Hidden:      form.Hidden,
		PageHistory: form.PageHistory,
		Delay:       time.Duration(cfg.DelayMs) * time.Millisecond,
		Rng:         rng,
	}, sub, sink)
	if err != nil {
		log.Error("run failed", zap.String("run_id", runID), zap.Error(err))
		return err
	}

	log.Info("run finished",
		zap.String("run_id", runID),
		zap.String("status", string(result.Status)),
		zap.Int("successes", result.Successes),
	)
	return nil
}

// applyWeights copies operator weights from the config onto the scraped
// options, matching by question ID and option value.
func applyWeights(form *schema.Form, weights map[string]map[string]float64) {
	for qi := range form.Questions {
		q := &form.Questions[qi]
		byValue, ok := weights[q.ID]
		if !ok {
			byValue, ok = weights[q.EntryID]
		}
		if !ok {
			continue
		}
		for oi := range q.Options {
			if w, ok := byValue[q.Options[oi].Value]; ok {
				q.Options[oi].Weight = w
			}
		}
	}
}
