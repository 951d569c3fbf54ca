// Package ai turns a captured snapshot into a short narrative digest using
// the Anthropic API. It is strictly read-only decoration: digest failures
// never affect sync or capture.
package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/teamlens/teamlens/internal/types"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5-20250929"

const digestMaxTokens = 1024

// Digester generates snapshot digests.
type Digester struct {
	client *anthropic.Client
	model  string
}

// NewDigester creates a digester. The API key falls back to
// ANTHROPIC_API_KEY; an empty key is an error.
func NewDigester(apiKey, model string) (*Digester, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}
	if model == "" {
		model = DefaultModel
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Digester{client: &client, model: model}, nil
}

// Digest asks the model for a short narrative summary of one snapshot.
func (d *Digester) Digest(ctx context.Context, snap *types.MetricsSnapshotV1) (string, error) {
	prompt := BuildDigestPrompt(snap)

	resp, err := d.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(d.model),
		MaxTokens: digestMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return text.String(), nil
}

// BuildDigestPrompt renders a snapshot into a compact textual briefing the
// model can summarize. Only the numbers that drive each pillar's status are
// included.
func BuildDigestPrompt(snap *types.MetricsSnapshotV1) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are summarizing engineering health metrics for %s scope %q.\n\n", snap.Level, snap.LevelID)
	fmt.Fprintf(&b, "Captured at: %s\n\n", snap.CapturedAt.Format("2006-01-02 15:04 MST"))

	th := snap.TeamHealth
	fmt.Fprintf(&b, "Workload [%s]: %d active engineers, %.0f%% with healthy workload; %d of %d active projects impacted by overloaded engineers.\n",
		th.Status, th.ActiveEngineers, th.HealthyPercent, th.ImpactedProjects, th.ActiveProjects)

	ph := snap.ProjectHealth
	fmt.Fprintf(&b, "Delivery [%s]: %d active projects, %d on track, %d at risk, %d off track (%.0f%% on track).\n",
		ph.Status, ph.ActiveProjects, ph.OnTrack, ph.AtRisk, ph.OffTrack, ph.OnTrackPercent)

	q := snap.Quality
	fmt.Fprintf(&b, "Quality [%s]: composite %d/100; %d open bugs (avg age %.0f days); net bug change %+d over 14 days.\n",
		q.Status, q.Composite, q.OpenBugs, q.AvgAgeDays, q.NetChange)

	ta := snap.Tactical
	fmt.Fprintf(&b, "Hygiene [%s]: score %d/100; %d gaps out of %d possible.\n",
		ta.Status, ta.Score, ta.TotalGaps, ta.MaxPossibleGaps)

	switch p := snap.Productivity; {
	case p == nil:
		b.WriteString("Productivity: no data available for this period.\n")
	case p.Measured != nil && p.Measured.PerEngineer != nil:
		fmt.Fprintf(&b, "Productivity [%s]: %.1f units per engineer", p.Status, *p.Measured.PerEngineer)
		if p.Measured.PercentOfTarget != nil {
			fmt.Fprintf(&b, " (%.0f%% of target)", *p.Measured.PercentOfTarget)
		}
		b.WriteString(".\n")
	default:
		fmt.Fprintf(&b, "Productivity [%s]: %s\n", p.Status, p.Notes)
	}

	b.WriteString("\nWrite a 3-5 sentence digest for an engineering leader: lead with the overall picture, name the worst pillar and why, and suggest one concrete follow-up. Plain prose, no headings or bullets.")
	return b.String()
}
