// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ttbt-io/pitchbypitch/backend"
	"github.com/ttbt-io/pitchbypitch/backend/game"
	"github.com/ttbt-io/pitchbypitch/backend/rng"
)

type printAnnouncer struct {
	w io.Writer
}

func (a printAnnouncer) Announce(msg string) {
	fmt.Fprintln(a.w, msg)
}

// cliGame is a game ready for the driver: where it starts and who answers
// the managed side's decisions.
type cliGame struct {
	setup game.Setup
	gen   *rng.Generator
	state game.GameState
	human game.Manager
	fresh bool
}

func prepareGame(cfg backend.GameConfig) (cliGame, error) {
	switch {
	case *importPath != "":
		data, err := os.ReadFile(*importPath)
		if err != nil {
			return cliGame{}, err
		}
		p, err := backend.ImportSave(data)
		if err != nil {
			return cliGame{}, err
		}
		gen := rng.New(p.Seed)
		gen.Restore(p.RNGState)
		return cliGame{
			setup: p.Setup,
			gen:   gen,
			state: p.State,
			human: game.AIManager{Team: p.Setup.ManagedSide},
		}, nil

	case *replayLink != "":
		rp, err := backend.ParseReplayLink(*replayLink)
		if err != nil {
			return cliGame{}, err
		}
		return cliGame{
			setup: cfg.Setup,
			gen:   rng.New(rp.Seed),
			state: game.ApplySetup(game.NewState([2]string{}), cfg.Setup),
			human: game.NewLogManager(cfg.Setup.ManagedSide, rp.DecisionLog),
			fresh: true,
		}, nil
	}

	text := *seedText
	if text == "" {
		text = cfg.Seed
	}
	return cliGame{
		setup: cfg.Setup,
		gen:   rng.New(rng.SeedFromText(text)),
		state: game.ApplySetup(game.NewState([2]string{}), cfg.Setup),
		human: game.AIManager{Team: cfg.Setup.ManagedSide},
		fresh: true,
	}, nil
}

// runCLI plays one game to the end and prints it. It returns the exit code.
func runCLI(log zerolog.Logger) int {
	cfg, err := backend.LoadGameConfig(*configPath)
	if err != nil {
		log.Error().Err(err).Msg("load game config")
		return 2
	}
	g, err := prepareGame(cfg)
	if err != nil {
		if *importPath != "" {
			log.Error().Err(err).Str("category", backend.ImportCategory(err)).Msg("import save")
		} else {
			log.Error().Err(err).Msg("prepare game")
		}
		return 2
	}

	var ann game.Announcer
	if *verbose {
		ann = printAnnouncer{w: os.Stdout}
	}
	seed := g.gen.Seed()
	r := game.NewReducer(g.gen, game.Options{Logger: &log, Announcer: ann, Seed: seed})
	d := game.NewDriver(r, g.state, g.setup.ManagerMode, g.setup.ManagedSide, g.human)
	final, err := d.PlayToEnd(backend.MaxGameSteps)
	if err != nil {
		log.Error().Err(err).Int("pitchKey", final.PitchKey).Msg("game did not finish")
		return 1
	}

	printGame(os.Stdout, final, rng.FormatSeed(seed))
	if g.fresh {
		link, err := backend.EncodeReplayLink(strings.TrimSuffix(*publicURL, "/")+"/replay", seed, final.DecisionLog)
		if err == nil {
			fmt.Fprintf(os.Stdout, "\nreplay: %s\n", link)
		}
	}

	if *exportPath != "" {
		data, err := backend.ExportSave(backend.SavePayload{
			SaveID:   uuid.NewString(),
			SavedAt:  time.Now().UnixMilli(),
			Seed:     seed,
			RNGState: g.gen.State(),
			Setup:    g.setup,
			State:    final,
		})
		if err != nil {
			log.Error().Err(err).Msg("export")
			return 1
		}
		if err := os.WriteFile(*exportPath, data, 0o644); err != nil {
			log.Error().Err(err).Msg("write save")
			return 1
		}
		log.Info().Str("path", *exportPath).Msg("save written")
	}
	return 0
}

func printGame(w io.Writer, s game.GameState, seed string) {
	box := game.ComputeBoxScore(s)
	fmt.Fprintf(w, "seed %s, final after %d innings\n\n", seed, s.Inning)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{""}
	for i := 1; i <= s.Inning; i++ {
		header = append(header, fmt.Sprint(i))
	}
	header = append(header, "R", "H")
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, tb := range box.Teams {
		row := []string{tb.Name}
		for i := range s.Inning {
			if i < len(tb.LineScore) {
				row = append(row, fmt.Sprint(tb.LineScore[i]))
			} else {
				row = append(row, "-")
			}
		}
		row = append(row, fmt.Sprint(tb.Runs), fmt.Sprint(tb.Hits))
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	tw.Flush()

	for _, tb := range box.Teams {
		fmt.Fprintf(w, "\n%s\n", tb.Name)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "player\tPA\tAB\tH\tBB\tK\tRBI\tAVG\tOBP\t")
		for _, l := range tb.Batting {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t%s\t\n", l.Player, l.PA, l.AB, l.H, l.BB, l.K, l.RBI, l.AVG, l.OBP)
		}
		tw.Flush()
	}
}
