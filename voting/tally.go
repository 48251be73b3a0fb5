// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "github.com/danielhkuo/voting-sessions/models"

// TallyResult is the outcome of counting an agenda's votes.
type TallyResult struct {
	Yes     int
	No      int
	Outcome string // SIM, NAO or EMPATE
}

// Tally counts SIM and NAO votes across every session, whatever the
// session status. Equal counts, including no votes at all, are a tie.
func Tally(sessions []models.Session) TallyResult {
	var res TallyResult
	for _, session := range sessions {
		for _, vote := range session.Votes {
			switch vote.VoteOption {
			case models.OptionYes:
				res.Yes++
			case models.OptionNo:
				res.No++
			}
		}
	}

	switch {
	case res.Yes == res.No:
		res.Outcome = models.ResultTie
	case res.Yes > res.No:
		res.Outcome = models.ResultYes
	default:
		res.Outcome = models.ResultNo
	}
	return res
}
