package models

import "time"

// EndTimeLayout is how the voting deadline is displayed.
const EndTimeLayout = "2006-01-02 15:04:05"

type LotteryView struct {
	Address  string   `json:"address"`
	Balance  string   `json:"balance"`
	EntryFee string   `json:"entry_fee"`
	Loading  bool     `json:"loading"`
	Notices  []Notice `json:"notices"`
}

type VotingView struct {
	Address    string            `json:"address"`
	EndTime    string            `json:"end_time"`
	Open       bool              `json:"open"`
	Candidates []CandidateResult `json:"candidates"`
	Loading    bool              `json:"loading"`
	Notices    []Notice          `json:"notices"`
}

func FormatEndTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(EndTimeLayout)
}
