package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const configScaffold = `version: 1

templates:
  builtin: true
  paths:
    - ./templates/
  exclude:
    - ./templates/drafts/

scoring:
  weights:
    entity: 0.30
    sentiment: 0.20
    office: 0.25
    controversy: 0.15
    recency: 0.10
  min_match_threshold: 0.4
  keyword_bonus_max: 0.5
  keyword_cache_ttl: 30m

synthesis:
  seed: 0
  high_stakes_impact: 8
  high_stakes_turns: 8

pipeline:
  workers: 4
  process_budget: 250ms

database:
  dsn: sqlite://headliner.db

game_state: ./state.yaml
`

const stateScaffold = `player_id: player-1
name: Alex Morgan
party: Independent
state: Ohio
tier: 1
title: City Council Member
turn: 1
turns_until_election: 20
approval: 50
alignment:
  law_chaos: 0
  good_evil: 0
party_positions: {}
chaos_mode: false
`

const templateScaffold = `---
id: local-infrastructure-vote
category: DomesticLegislation
kind: policy-pressure
urgency: developing
headline: "{bill_name} heads to a vote"
context: "{player_relevance}"
variables:
  - name: bill_name
    source: "entities.legislation[0].name"
    fallback: "An infrastructure bill"
    required: true
  - name: player_relevance
    source: "context.player_relevance"
    fallback: ""
min_impact: 3
min_controversy: 0.2
required_entities: [legislation]
keywords: [infrastructure, roads, bridges]
tier_scaling: [1.2, 1.0, 0.9, 0.8, 0.7]
effects:
  trust: [-2, 3]
  capital: [-3, 2]
  media: [1, 4]
tags: [legislation, local]
---
{bill_name} is set for a vote, and constituents want to know where you stand.
`

func initCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new headliner project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runInit(dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized headliner project in %s\n", dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "Project directory")
	return cmd
}

func runInit(dir string) error {
	files := []struct {
		path     string
		contents string
	}{
		{filepath.Join(dir, "headliner.yaml"), configScaffold},
		{filepath.Join(dir, "state.yaml"), stateScaffold},
		{filepath.Join(dir, "templates", "local-infrastructure-vote.md"), templateScaffold},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			return fmt.Errorf("%s already exists", f.path)
		}
	}

	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		return fmt.Errorf("creating templates directory: %w", err)
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, []byte(f.contents), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
	}
	return nil
}
