package team

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/hellonmn/evenose-sub000/internal/hackathon"
	"github.com/hellonmn/evenose-sub000/pkg/apperr"
)

func (f *fixture) approvedTeam(t *testing.T, h *hackathon.Hackathon, leaderID uint, name string) *Team {
	t.Helper()
	team := f.submittedTeam(t, h, leaderID, name)
	team, err := f.service.ApproveTeam(team.ID, h.OrganizerID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	return team
}

func TestCheckInRequiresPermissionAndApprovedTeam(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	org := f.seedUser(t, "org")
	leader := f.seedUser(t, "leader")
	coord := f.seedUser(t, "coord")
	h := f.seedHackathon(t, org.ID, hackOpts{allowSolo: true})
	f.seedCoordinator(t, h.ID, coord.ID, hackathon.Permissions{CheckIn: true})

	draft, err := f.service.RegisterTeam(h.ID, "drafty", leader.ID, time.Now())
	is.NoErr(err)

	_, err = f.service.CheckInMember(draft.ID, coord.ID, leader.ID)
	is.True(errors.Is(err, apperr.ErrInvalidState))

	other := f.seedUser(t, "other-leader")
	team := f.approvedTeam(t, h, other.ID, "ready")

	// coordinator without the flag
	bare := f.seedUser(t, "bare")
	f.seedCoordinator(t, h.ID, bare.ID, hackathon.Permissions{ViewTeams: true})
	_, err = f.service.CheckInMember(team.ID, bare.ID, other.ID)
	is.True(errors.Is(err, apperr.ErrPermissionDenied))

	member, err := f.service.CheckInMember(team.ID, coord.ID, other.ID)
	is.NoErr(err)
	is.True(member.CheckedIn)
}

func TestAssignTable(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	org := f.seedUser(t, "org")
	leader := f.seedUser(t, "leader")
	coord := f.seedUser(t, "coord")
	h := f.seedHackathon(t, org.ID, hackOpts{allowSolo: true})
	f.seedCoordinator(t, h.ID, coord.ID, hackathon.Permissions{AssignTables: true})

	team := f.approvedTeam(t, h, leader.ID, "gophers")

	_, err := f.service.AssignTable(team.ID, coord.ID, "", 0)
	is.True(errors.Is(err, apperr.ErrValidation))

	assigned, err := f.service.AssignTable(team.ID, coord.ID, "A-12", 7)
	is.NoErr(err)
	is.Equal(assigned.TableNumber, "A-12")
	is.Equal(assigned.TeamNumber, 7)
}

func TestEliminateTeamNeedsReason(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	org := f.seedUser(t, "org")
	leader := f.seedUser(t, "leader")
	h := f.seedHackathon(t, org.ID, hackOpts{allowSolo: true})

	team := f.approvedTeam(t, h, leader.ID, "gophers")

	_, err := f.service.EliminateTeam(team.ID, org.ID, "")
	is.True(errors.Is(err, apperr.ErrValidation))

	out, err := f.service.EliminateTeam(team.ID, org.ID, "did not advance past round 1")
	is.NoErr(err)
	is.Equal(out.SubmissionStatus, StatusRejected)
	is.Equal(out.RejectionReason, "did not advance past round 1")

	// already out
	_, err = f.service.EliminateTeam(team.ID, org.ID, "again")
	is.True(errors.Is(err, apperr.ErrInvalidState))
}

func TestAnnounceReachesApprovedLeaders(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	org := f.seedUser(t, "org")
	a := f.seedUser(t, "alice")
	b := f.seedUser(t, "bob")
	c := f.seedUser(t, "carol")
	h := f.seedHackathon(t, org.ID, hackOpts{allowSolo: true})

	f.approvedTeam(t, h, a.ID, "alphas")
	f.approvedTeam(t, h, b.ID, "betas")
	// carol's team stays in draft
	_, err := f.service.RegisterTeam(h.ID, "gammas", c.ID, time.Now())
	is.NoErr(err)

	before := len(f.notifier.sent())
	sent, err := f.service.Announce(h.ID, org.ID, "Lunch", "Pizza at noon in hall B")
	is.NoErr(err)
	is.Equal(sent, 2)

	msgs := f.notifier.sent()[before:]
	is.Equal(len(msgs), 2)
	recipients := map[string]bool{}
	for _, m := range msgs {
		is.Equal(m.Subject, "Lunch")
		recipients[m.To] = true
	}
	is.True(recipients[a.Email])
	is.True(recipients[b.Email])
	is.True(!recipients[c.Email])
}

func TestAnnounceRequiresCommunicatePermission(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)
	org := f.seedUser(t, "org")
	coord := f.seedUser(t, "coord")
	h := f.seedHackathon(t, org.ID, hackOpts{allowSolo: true})
	f.seedCoordinator(t, h.ID, coord.ID, hackathon.Permissions{ViewTeams: true})

	_, err := f.service.Announce(h.ID, coord.ID, "s", "b")
	is.True(errors.Is(err, apperr.ErrPermissionDenied))
}
