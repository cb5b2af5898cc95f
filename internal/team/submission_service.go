package team

import (
	"fmt"

	"github.com/hellonmn/evenose-sub000/internal/hackathon"
	"github.com/hellonmn/evenose-sub000/pkg/apperr"
)

// Project submissions and judging.

// SubmitProject records or replaces the team's submission for a round.
// Leader only; the team must be approved and the round must belong to the
// team's hackathon.
func (s *TeamService) SubmitProject(teamID, roundID, actingUser uint, repoLink, demoLink, description string) (*Submission, error) {
	if repoLink == "" {
		return nil, fmt.Errorf("repository link is required: %w", apperr.ErrValidation)
	}
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLeader(t, actingUser); err != nil {
		return nil, err
	}
	if t.SubmissionStatus != StatusApproved {
		return nil, fmt.Errorf("team %d is %s, only approved teams submit projects: %w", t.ID, t.SubmissionStatus, apperr.ErrInvalidState)
	}

	round, err := s.hackathons.GetRound(h.ID, roundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, fmt.Errorf("round %d in hackathon %d: %w", roundID, h.ID, apperr.ErrNotFound)
	}

	sub, err := s.teams.GetSubmission(teamID, roundID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub = &Submission{TeamID: teamID, RoundID: roundID}
	}
	sub.RepoLink = repoLink
	sub.DemoLink = demoLink
	sub.Description = description
	if err := s.teams.SaveSubmission(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubmissions returns a team's submissions. Visible to the team leader,
// the organizer, and coordinators with the view-submissions permission.
func (s *TeamService) GetSubmissions(teamID, actingUser uint) ([]Submission, error) {
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if t.LeaderID != actingUser {
		if err := s.authorize(h, actingUser, hackathon.PermViewSubmissions); err != nil {
			return nil, err
		}
	}
	return s.teams.GetSubmissions(teamID)
}

// ScoreTeam records a judge's score for a team in a round, one score per
// judge per round. Re-scoring overwrites the previous value.
func (s *TeamService) ScoreTeam(teamID, roundID, actingUser uint, breakdown string, total float64) (*Score, error) {
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}

	judge, err := s.hackathons.GetJudge(h.ID, actingUser)
	if err != nil {
		return nil, err
	}
	if judge == nil || judge.Status != hackathon.InviteStatusAccepted {
		return nil, fmt.Errorf("user %d is not a judge on hackathon %d: %w", actingUser, h.ID, apperr.ErrForbidden)
	}

	if t.SubmissionStatus != StatusApproved {
		return nil, fmt.Errorf("team %d is %s, only approved teams are scored: %w", t.ID, t.SubmissionStatus, apperr.ErrInvalidState)
	}

	round, err := s.hackathons.GetRound(h.ID, roundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, fmt.Errorf("round %d in hackathon %d: %w", roundID, h.ID, apperr.ErrNotFound)
	}
	if total < 0 || total > float64(round.MaxScore) {
		return nil, fmt.Errorf("total %.2f is outside 0..%d for round %q: %w", total, round.MaxScore, round.Name, apperr.ErrValidation)
	}

	score, err := s.teams.GetScore(teamID, roundID, actingUser)
	if err != nil {
		return nil, err
	}
	if score == nil {
		score = &Score{TeamID: teamID, RoundID: roundID, JudgeID: actingUser}
	}
	score.Breakdown = breakdown
	score.Total = total
	if err := s.teams.SaveScore(score); err != nil {
		return nil, err
	}
	return score, nil
}

// GetScores returns a team's scores across rounds. Visible to the team
// leader, the organizer, and accepted judges.
func (s *TeamService) GetScores(teamID, actingUser uint) ([]Score, error) {
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if t.LeaderID != actingUser && h.OrganizerID != actingUser {
		judge, err := s.hackathons.GetJudge(h.ID, actingUser)
		if err != nil {
			return nil, err
		}
		if judge == nil || judge.Status != hackathon.InviteStatusAccepted {
			return nil, fmt.Errorf("user %d may not view scores for team %d: %w", actingUser, teamID, apperr.ErrForbidden)
		}
	}
	return s.teams.GetScores(teamID)
}
