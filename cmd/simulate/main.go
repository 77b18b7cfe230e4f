// Command simulate plays AI-vs-AI matches without a window and prints one
// outcome record per line as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/milk9111/rayfighter/config"
	"github.com/milk9111/rayfighter/fight"
	"github.com/milk9111/rayfighter/logging"
	"github.com/milk9111/rayfighter/session"
)

// maxMatchSeconds stops a match that somehow never ends.
const maxMatchSeconds = 60 * 10

type summary struct {
	Matches  int
	Wins     int
	AvgScore float64
	TotalXP  int
	Level    int
}

func simulate(ctx context.Context, sess *session.Session, matches int, out io.Writer) (summary, error) {
	enc := json.NewEncoder(out)
	tickRate := sess.Bundle().Tuning.TickRate
	if tickRate <= 0 {
		tickRate = 30
	}
	dt := 1 / float64(tickRate)

	var sum summary
	score := 0
	for i := 0; i < matches; i++ {
		f, err := sess.NewFight(ctx, session.Setup{Autopilot: true})
		if err != nil {
			return sum, err
		}
		var res *fight.Outcome
		for t := 0; t < maxMatchSeconds*tickRate && res == nil; t++ {
			res = f.Update(ctx, dt)
		}
		if res == nil {
			return sum, fmt.Errorf("match %d did not finish", i+1)
		}
		if err := enc.Encode(res); err != nil {
			return sum, fmt.Errorf("write outcome: %w", err)
		}
		sum.Matches++
		score += res.Score
		if res.Win {
			sum.Wins++
		}
	}
	if sum.Matches > 0 {
		sum.AvgScore = float64(score) / float64(sum.Matches)
	}
	sum.TotalXP = sess.Progression().TotalXP()
	sum.Level = sess.Progression().PlayerLevel()
	return sum, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	// simulated matches stay out of the player's save unless asked
	cfg.SavePath = ""
	cfg.Watch = false
	cfg.BindFlags(flag.CommandLine)
	matches := flag.Int("n", 10, "number of matches")
	flag.Parse()

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	sess, err := session.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	sum, err := simulate(ctx, sess, *matches, os.Stdout)
	if err != nil {
		logger.Error("simulate", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("done",
		slog.Int("matches", sum.Matches),
		slog.Int("wins", sum.Wins),
		slog.Float64("avg_score", sum.AvgScore),
		slog.Int("total_xp", sum.TotalXP),
		slog.Int("level", sum.Level),
	)
}
