package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown document.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Staking Ledger Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Projects: %d\n\n", r.ProjectCount))

	sb.WriteString("## Platform\n\n")
	if r.Platform.Initialized {
		sb.WriteString("| Setting | Value |\n")
		sb.WriteString("|---------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Admin | %s |\n", r.Platform.Admin))
		sb.WriteString(fmt.Sprintf("| Fee Collector | %s |\n", r.Platform.FeeCollector))
		sb.WriteString(fmt.Sprintf("| Token Fee (bps) | %d |\n", r.Platform.TokenFeeBps))
		sb.WriteString(fmt.Sprintf("| Native Fee | %d |\n", r.Platform.NativeFee))
		sb.WriteString("\n")
	} else {
		sb.WriteString("Platform not initialized.\n\n")
	}

	sb.WriteString("## Projects\n\n")
	if len(r.Projects) > 0 {
		sb.WriteString("| Project | Mint | Mode | Rate (bps/yr) | Staked | Rewards In | Rewards Out | Stakers | Reflections | Paused |\n")
		sb.WriteString("|---------|------|------|---------------|--------|------------|-------------|---------|-------------|--------|\n")
		for _, p := range r.Projects {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %d | %d | %d | %d | %v | %v |\n",
				p.ProjectID, p.TokenMint, p.RateMode, p.RateBpsPerYear,
				p.TotalStaked, p.TotalRewardsDeposited, p.TotalRewardsClaimed,
				p.Stakers, p.ReflectionsEnabled, p.Paused))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No projects.\n\n")
	}

	sb.WriteString("## Activity\n\n")
	if len(r.Activity) > 0 {
		sb.WriteString("| Project | Deposits | Volume In | Withdrawals | Volume Out | Claims | Claimed | Fees |\n")
		sb.WriteString("|---------|----------|-----------|-------------|------------|--------|---------|------|\n")
		for _, a := range r.Activity {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d | %d | %d | %d |\n",
				a.ProjectID, a.Deposits, a.DepositVolume, a.Withdrawals,
				a.WithdrawVolume, a.Claims, a.ClaimVolume, a.FeesCollected))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No activity in the report window.\n\n")
	}

	sb.WriteString("## Integrity\n\n")
	if len(r.IntegrityErrors) > 0 {
		for _, e := range r.IntegrityErrors {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("All invariants hold.\n")
	}

	return sb.String()
}
