package team

import (
	"errors"

	"gorm.io/gorm"
)

// TeamRepository defines data access for teams, rosters, join requests,
// submissions and scores.
type TeamRepository interface {
	CreateTeam(t *Team) error
	GetTeamByID(id uint) (*Team, error)
	GetTeamByName(hackathonID uint, name string) (*Team, error)
	GetTeamsByHackathon(hackathonID uint, status string, page, limit int) ([]Team, int64, error)
	UpdateTeam(t *Team) error

	CreateMember(m *TeamMember) error
	GetMember(teamID, userID uint) (*TeamMember, error)
	GetActiveMembers(teamID uint) ([]TeamMember, error)
	CountActiveMembers(teamID uint) (int, error)
	UpdateMember(m *TeamMember) error

	CreateJoinRequest(r *JoinRequest) error
	GetJoinRequestByID(id uint) (*JoinRequest, error)
	GetPendingJoinRequest(teamID, userID uint) (*JoinRequest, error)
	GetJoinRequestsByTeam(teamID uint, status string, page, limit int) ([]JoinRequest, int64, error)
	UpdateJoinRequest(r *JoinRequest) error

	GetSubmission(teamID, roundID uint) (*Submission, error)
	SaveSubmission(s *Submission) error
	GetSubmissions(teamID uint) ([]Submission, error)

	GetScore(teamID, roundID, judgeID uint) (*Score, error)
	SaveScore(s *Score) error
	GetScores(teamID uint) ([]Score, error)

	WithTransaction(txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

// --- Team operations ---

func (r *teamRepository) CreateTeam(t *Team) error {
	return r.db.Create(t).Error
}

func (r *teamRepository) GetTeamByID(id uint) (*Team, error) {
	var t Team
	if err := r.db.Preload("Members").First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *teamRepository) GetTeamByName(hackathonID uint, name string) (*Team, error) {
	var t Team
	err := r.db.Where("hackathon_id = ? AND name = ?", hackathonID, name).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *teamRepository) GetTeamsByHackathon(hackathonID uint, status string, page, limit int) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{}).Where("hackathon_id = ?", hackathonID)
	if status != "" {
		query = query.Where("submission_status = ?", status)
	}
	query.Count(&total)

	// limit <= 0 means no pagination
	offset, lim := -1, -1
	if limit > 0 {
		offset, lim = (page-1)*limit, limit
	}
	if err := query.Preload("Members").Offset(offset).Limit(lim).Order("created_at asc").Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

func (r *teamRepository) UpdateTeam(t *Team) error {
	return r.db.Save(t).Error
}

// --- Member operations ---

func (r *teamRepository) CreateMember(m *TeamMember) error {
	return r.db.Create(m).Error
}

func (r *teamRepository) GetMember(teamID, userID uint) (*TeamMember, error) {
	var m TeamMember
	err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *teamRepository) GetActiveMembers(teamID uint) ([]TeamMember, error) {
	var members []TeamMember
	err := r.db.Where("team_id = ? AND status = ?", teamID, MemberActive).Order("created_at asc").Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *teamRepository) CountActiveMembers(teamID uint) (int, error) {
	var count int64
	err := r.db.Model(&TeamMember{}).Where("team_id = ? AND status = ?", teamID, MemberActive).Count(&count).Error
	return int(count), err
}

func (r *teamRepository) UpdateMember(m *TeamMember) error {
	return r.db.Save(m).Error
}

// --- Join request operations ---

func (r *teamRepository) CreateJoinRequest(req *JoinRequest) error {
	return r.db.Create(req).Error
}

func (r *teamRepository) GetJoinRequestByID(id uint) (*JoinRequest, error) {
	var req JoinRequest
	if err := r.db.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *teamRepository) GetPendingJoinRequest(teamID, userID uint) (*JoinRequest, error) {
	var req JoinRequest
	err := r.db.Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, RequestPending).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *teamRepository) GetJoinRequestsByTeam(teamID uint, status string, page, limit int) ([]JoinRequest, int64, error) {
	var requests []JoinRequest
	var total int64

	query := r.db.Model(&JoinRequest{}).Where("team_id = ?", teamID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	// limit <= 0 means no pagination
	offset, lim := -1, -1
	if limit > 0 {
		offset, lim = (page-1)*limit, limit
	}
	if err := query.Offset(offset).Limit(lim).Order("created_at desc").Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *teamRepository) UpdateJoinRequest(req *JoinRequest) error {
	return r.db.Save(req).Error
}

// --- Submission operations ---

func (r *teamRepository) GetSubmission(teamID, roundID uint) (*Submission, error) {
	var s Submission
	err := r.db.Where("team_id = ? AND round_id = ?", teamID, roundID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *teamRepository) SaveSubmission(s *Submission) error {
	return r.db.Save(s).Error
}

func (r *teamRepository) GetSubmissions(teamID uint) ([]Submission, error) {
	var submissions []Submission
	if err := r.db.Where("team_id = ?", teamID).Order("round_id asc").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// --- Score operations ---

func (r *teamRepository) GetScore(teamID, roundID, judgeID uint) (*Score, error) {
	var s Score
	err := r.db.Where("team_id = ? AND round_id = ? AND judge_id = ?", teamID, roundID, judgeID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *teamRepository) SaveScore(s *Score) error {
	return r.db.Save(s).Error
}

func (r *teamRepository) GetScores(teamID uint) ([]Score, error) {
	var scores []Score
	if err := r.db.Where("team_id = ?", teamID).Order("round_id asc").Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *teamRepository) WithTransaction(txFunc func(TeamRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&teamRepository{db: tx})
	})
}
