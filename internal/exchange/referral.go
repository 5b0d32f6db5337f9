package exchange

import (
	"context"

	"github.com/rovshanmuradov/teleswap-backend/internal/db"
	"github.com/shopspring/decimal"
)

// ReferralSummary is what /referral shows. Total figures cover every referred user of the
// programme; My figures cover the caller's direct referrals only. Only finished exchanges count.
type ReferralSummary struct {
	TotalReferrals int
	TotalVolume    decimal.Decimal
	TotalRewards   decimal.Decimal

	MyReferrals int
	MyVolume    decimal.Decimal
	MyRewards   decimal.Decimal
}

func (s *Service) ComputeReferralSummary(ctx context.Context, userID int64) (*ReferralSummary, error) {
	users, err := s.store.ReferredUsers(ctx)
	if err != nil {
		return nil, storageErr("list referred users", err)
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}
	recs, err := s.store.FinishedExchanges(ctx, ids)
	if err != nil {
		return nil, storageErr("list finished exchanges", err)
	}

	summary := summarize(userID, users, recs)
	return &summary, nil
}

func summarize(userID int64, users []db.User, recs []db.ExchangeRecord) ReferralSummary {
	sum := ReferralSummary{
		TotalVolume:  decimal.Zero,
		TotalRewards: decimal.Zero,
		MyVolume:     decimal.Zero,
		MyRewards:    decimal.Zero,
	}

	mine := make(map[int64]bool)
	referred := make(map[int64]bool)
	for _, u := range users {
		if u.ReferredBy == nil {
			continue
		}
		referred[u.UserID] = true
		sum.TotalReferrals++
		if *u.ReferredBy == userID {
			mine[u.UserID] = true
			sum.MyReferrals++
		}
	}

	for _, rec := range recs {
		if !rec.ExchangeFinished || rec.UserID == nil || !referred[*rec.UserID] {
			continue
		}
		volume := parseUSD(rec.OutputUSD)
		sum.TotalVolume = sum.TotalVolume.Add(volume)
		sum.TotalRewards = sum.TotalRewards.Add(rec.PrimaryReferralRewardUSD)
		if mine[*rec.UserID] {
			sum.MyVolume = sum.MyVolume.Add(volume)
			sum.MyRewards = sum.MyRewards.Add(rec.PrimaryReferralRewardUSD)
		}
	}
	return sum
}

// ProgramInfo are the programme wide figures of the welcome message.
type ProgramInfo struct {
	db.ProgramStats
	RevenueShareUSD decimal.Decimal
}

func (s *Service) ProgramInfo(ctx context.Context) (*ProgramInfo, error) {
	stats, err := s.store.ProgramStats(ctx)
	if err != nil {
		return nil, storageErr("program stats", err)
	}
	return &ProgramInfo{
		ProgramStats:    *stats,
		RevenueShareUSD: stats.TotalVolumeUSD.Mul(s.revShare),
	}, nil
}
