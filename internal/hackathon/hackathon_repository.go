package hackathon

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// HackathonRepository defines data access for hackathons and their
// coordinator/judge rosters.
type HackathonRepository interface {
	Create(h *Hackathon) error
	GetByID(id uint) (*Hackathon, error)
	GetAll(page, limit int, filters map[string]interface{}) ([]Hackathon, int64, error)
	Update(h *Hackathon) error
	Delete(id uint) error
	ReplaceRounds(hackathonID uint, rounds []Round) error
	GetRound(hackathonID, roundID uint) (*Round, error)

	AddCoordinator(c *Coordinator) error
	GetCoordinator(hackathonID, userID uint) (*Coordinator, error)
	GetCoordinatorByToken(token string) (*Coordinator, error)
	UpdateCoordinator(c *Coordinator) error

	AddJudge(j *Judge) error
	GetJudge(hackathonID, userID uint) (*Judge, error)
	GetJudgeByToken(token string) (*Judge, error)
	UpdateJudge(j *Judge) error

	WithTransaction(txFunc func(HackathonRepository) error) error
}

type hackathonRepository struct {
	db *gorm.DB
}

func NewHackathonRepository(db *gorm.DB) HackathonRepository {
	return &hackathonRepository{db: db}
}

func (r *hackathonRepository) Create(h *Hackathon) error {
	return r.db.Create(h).Error
}

func (r *hackathonRepository) GetByID(id uint) (*Hackathon, error) {
	var h Hackathon
	err := r.db.Preload("Rounds").Preload("Coordinators").Preload("Judges").First(&h, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

func (r *hackathonRepository) GetAll(page, limit int, filters map[string]interface{}) ([]Hackathon, int64, error) {
	var hackathons []Hackathon
	var total int64

	query := r.db.Model(&Hackathon{}).Where("is_deleted = ?", false)
	if organizerID, ok := filters["organizer_id"]; ok {
		query = query.Where("organizer_id = ?", organizerID)
	}
	if name, ok := filters["name"]; ok {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name.(string))+"%")
	}

	query.Count(&total)
	offset := (page - 1) * limit
	if err := query.Preload("Rounds").Offset(offset).Limit(limit).Order("created_at desc").Find(&hackathons).Error; err != nil {
		return nil, 0, err
	}
	return hackathons, total, nil
}

func (r *hackathonRepository) Update(h *Hackathon) error {
	return r.db.Save(h).Error
}

func (r *hackathonRepository) Delete(id uint) error {
	return r.db.Model(&Hackathon{}).Where("id = ?", id).Update("is_deleted", true).Error
}

func (r *hackathonRepository) ReplaceRounds(hackathonID uint, rounds []Round) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hackathon_id = ?", hackathonID).Delete(&Round{}).Error; err != nil {
			return err
		}
		for i := range rounds {
			rounds[i].HackathonID = hackathonID
		}
		if len(rounds) == 0 {
			return nil
		}
		return tx.Create(&rounds).Error
	})
}

func (r *hackathonRepository) GetRound(hackathonID, roundID uint) (*Round, error) {
	var round Round
	err := r.db.Where("hackathon_id = ? AND id = ?", hackathonID, roundID).First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &round, nil
}

// --- Coordinator operations ---

func (r *hackathonRepository) AddCoordinator(c *Coordinator) error {
	return r.db.Create(c).Error
}

func (r *hackathonRepository) GetCoordinator(hackathonID, userID uint) (*Coordinator, error) {
	var c Coordinator
	err := r.db.Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *hackathonRepository) GetCoordinatorByToken(token string) (*Coordinator, error) {
	if token == "" {
		return nil, nil
	}
	var c Coordinator
	err := r.db.Where("invite_token = ? AND status = ?", token, InviteStatusPending).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *hackathonRepository) UpdateCoordinator(c *Coordinator) error {
	// Save skips zero values for selected fields; use Select so clearing
	// the token on accept actually persists.
	return r.db.Model(c).Select("invite_token", "status",
		"perm_view_teams", "perm_check_in", "perm_assign_tables",
		"perm_view_submissions", "perm_eliminate_teams", "perm_communicate").Updates(c).Error
}

// --- Judge operations ---

func (r *hackathonRepository) AddJudge(j *Judge) error {
	return r.db.Create(j).Error
}

func (r *hackathonRepository) GetJudge(hackathonID, userID uint) (*Judge, error) {
	var j Judge
	err := r.db.Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).First(&j).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}

func (r *hackathonRepository) GetJudgeByToken(token string) (*Judge, error) {
	if token == "" {
		return nil, nil
	}
	var j Judge
	err := r.db.Where("invite_token = ? AND status = ?", token, InviteStatusPending).First(&j).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}

func (r *hackathonRepository) UpdateJudge(j *Judge) error {
	return r.db.Model(j).Select("invite_token", "status").Updates(j).Error
}

func (r *hackathonRepository) WithTransaction(txFunc func(HackathonRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&hackathonRepository{db: tx})
	})
}
