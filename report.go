package raffle

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	reportRule = "=================================================="
	reportSep  = "--------------------------------------------------"
)

// WriteDrawReport writes the human-readable draw announcement
func WriteDrawReport(w io.Writer, r *DrawReport) error {
	var b strings.Builder

	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "       Nonce + Seed Raffle Results (%d Winners)\n", r.WinnerCount)
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Draw ID: %s\n", r.DrawID)
	fmt.Fprintf(&b, "Draw Timestamp (UTC): %s\n", r.Timestamp.UTC().Format(time.RFC3339Nano))
	fmt.Fprintf(&b, "Number of Winners Drawn: %s\n", humanize.Comma(int64(r.WinnerCount)))
	fmt.Fprintf(&b, "Total Weighted Entries: %s\n", humanize.Comma(int64(r.TotalEntries)))
	fmt.Fprintf(&b, "Unique Participants: %s\n", humanize.Comma(int64(r.UniqueParticipants)))
	fmt.Fprintf(&b, "Pool Fingerprint: %s\n", r.PoolFingerprint)
	fmt.Fprintf(&b, "Algorithm: %s\n", r.Algorithm)
	b.WriteString(reportSep + "\n")
	writeSeed(&b, "Base Seed: ", "Nonce Generated: ", "Final Seed (SHA-256 Hash): ", r.Seed)
	b.WriteString(reportSep + "\n")
	b.WriteString("           WINNERS\n")
	writeWinners(&b, r.Winners, "No winners were drawn.")
	writeWarnings(&b, r.Warnings)
	b.WriteString(reportRule + "\n")
	b.WriteString("VERIFICATION INFO: Record the 'Base Seed' and 'Nonce Generated'.\n")
	fmt.Fprintf(&b, "Run 'raffle verify' with these values and --algorithm %s to confirm the results.\n", r.Algorithm)
	b.WriteString(reportRule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteVerifyReport writes the recomputed winners and the comparison instructions
func WriteVerifyReport(w io.Writer, r *VerifyReport) error {
	var b strings.Builder

	b.WriteString(reportRule + "\n")
	b.WriteString("       Verification Calculation Results\n")
	b.WriteString(reportRule + "\n")
	writeSeed(&b, "Using Base Seed: ", "Using Nonce:     ", "Calculated Final Seed (SHA-256): ", r.Seed)
	fmt.Fprintf(&b, "Algorithm: %s\n", r.Algorithm)
	fmt.Fprintf(&b, "Pool Fingerprint: %s\n", r.PoolFingerprint)
	fmt.Fprintf(&b, "Verifying for %d winner(s).\n", r.WinnerCount)
	b.WriteString(reportSep + "\n")
	b.WriteString("Derived Winners (based on these inputs):\n")
	writeWinners(&b, r.Winners, "No winners could be derived with the provided inputs.")
	writeWarnings(&b, r.Warnings)
	b.WriteString(reportRule + "\n")

	if r.Compared() {
		if r.Matches() {
			b.WriteString("Comparison with announced winners: MATCH\n")
		} else {
			fmt.Fprintf(&b, "Comparison with announced winners: MISMATCH (announced: %s)\n", strings.Join(r.Expected, ", "))
		}
		b.WriteString(reportSep + "\n")
	}

	b.WriteString("ACTION: Compare the 'Derived Winners' list above to the\n")
	b.WriteString("winners announced for the specific raffle run you are verifying.\n")
	b.WriteString("-> If they MATCH EXACTLY, the original draw is verified.\n")
	b.WriteString("-> If they DO NOT MATCH, check your inputs (Base Seed, Nonce, Num Winners)\n")
	b.WriteString("   or ensure the participants file hasn't changed since the draw.\n")
	b.WriteString(reportRule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSimulationReport writes expected against observed win share per participant.
// Expected share is weight/total and is only exact for single-winner draws.
func WriteSimulationReport(w io.Writer, r *SimulationResult) error {
	var b strings.Builder

	var total int64
	for _, name := range r.Order {
		total += r.Weights[name]
	}

	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "       Simulation (%s draws, %d winner(s), %s)\n", humanize.Comma(int64(r.Trials)), r.WinnerCount, r.Algorithm)
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "%-24s %8s %10s %10s %10s\n", "Participant", "Weight", "Wins", "Observed", "Weight %")
	b.WriteString(reportSep + "\n")
	for _, name := range r.Order {
		weightShare := 0.0
		if total > 0 {
			weightShare = float64(r.Weights[name]) / float64(total)
		}
		fmt.Fprintf(&b, "%-24s %8s %10s %9.2f%% %9.2f%%\n",
			name,
			humanize.Comma(r.Weights[name]),
			humanize.Comma(int64(r.Wins[name])),
			100*r.Frequency(name),
			100*weightShare)
	}
	b.WriteString(reportRule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSeed(b *strings.Builder, baseLabel, nonceLabel, derivedLabel string, s SeedMaterial) {
	fmt.Fprintf(b, "%s'%s'\n", baseLabel, s.BaseSeed)
	fmt.Fprintf(b, "%s'%s'\n", nonceLabel, s.Nonce)
	fmt.Fprintf(b, "%s'%s'\n", derivedLabel, s.DerivedSeed)
}

func writeWinners(b *strings.Builder, winners WinnerList, none string) {
	if len(winners) == 0 {
		b.WriteString(none + "\n")
		return
	}
	for i, name := range winners {
		fmt.Fprintf(b, "%d. %s\n", i+1, name)
	}
}

// writeWarnings lists every skipped entry and adjustment. Reports carry them so
// they survive a log level that filters warnings out.
func writeWarnings(b *strings.Builder, warnings []Warning) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString(reportSep + "\n")
	b.WriteString("Warnings:\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "- %s\n", w.Message)
	}
}
