package reporting

import (
	"fmt"
	"strings"
)

// RenderProjectsCSV renders project rows as a CSV string.
func RenderProjectsCSV(projects []ProjectRow) string {
	var sb strings.Builder

	sb.WriteString("project_id,token_mint,rate_mode,rate_bps_per_year,total_staked,")
	sb.WriteString("total_rewards_deposited,total_rewards_claimed,stakers,reflections_enabled,paused\n")

	for _, p := range projects {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%d,%d,%d,%d,%d,%v,%v\n",
			p.ProjectID, p.TokenMint, p.RateMode, p.RateBpsPerYear,
			p.TotalStaked, p.TotalRewardsDeposited, p.TotalRewardsClaimed,
			p.Stakers, p.ReflectionsEnabled, p.Paused))
	}
	return sb.String()
}

// RenderActivityCSV renders activity rows as a CSV string.
func RenderActivityCSV(activity []ActivityRow) string {
	var sb strings.Builder

	sb.WriteString("project_id,deposits,deposit_volume,withdrawals,withdraw_volume,claims,claim_volume,fees_collected\n")

	for _, a := range activity {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%d,%d,%d,%d,%d\n",
			a.ProjectID, a.Deposits, a.DepositVolume, a.Withdrawals,
			a.WithdrawVolume, a.Claims, a.ClaimVolume, a.FeesCollected))
	}
	return sb.String()
}
