package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CandidateResult mirrors one entry of the ballot's getResults tuple. Field order matches the
// tuple layout.
type CandidateResult struct {
	Name             string         `json:"name"`
	CandidateAddress common.Address `json:"candidate_address"`
	VoteCount        *big.Int       `json:"vote_count"`
}

// Votes renders the tally as a plain integer.
func (c CandidateResult) Votes() string {
	if c.VoteCount == nil {
		return "0"
	}
	return c.VoteCount.String()
}
