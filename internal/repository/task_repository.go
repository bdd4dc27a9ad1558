package repository

import (
	"github.com/taskhub/task-hub-api/internal/database"
	"github.com/taskhub/task-hub-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a task; associated team members and activities set on the
// struct are inserted in the same transaction by the association writer.
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination, newest first
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.is_trashed = ?", filter.Trashed)

	if filter.Stage != nil {
		query = query.Where("tasks.stage = ?", *filter.Stage)
	}
	if filter.MemberOrCreatorID != nil {
		memberSubQuery := r.db.Model(&models.TaskMember{}).
			Select("1").
			Where("task_members.task_id = tasks.id").
			Where("task_members.user_id = ?", *filter.MemberOrCreatorID)
		query = query.Where("EXISTS (?) OR tasks.created_by_id = ?", memberSubQuery, *filter.MemberOrCreatorID)
	}
	if filter.MemberID != nil {
		memberSubQuery := r.db.Model(&models.TaskMember{}).
			Select("1").
			Where("task_members.task_id = tasks.id").
			Where("task_members.user_id = ?", *filter.MemberID)
		query = query.Where("EXISTS (?)", memberSubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC, tasks.id DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.
		Preload("CreatedBy").
		Preload("Team").
		Preload("Team.User").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateWithActivity saves scalar fields, replaces the team and appends the
// activity record in one transaction so concurrent updates cannot lose an
// activity append.
func (r *GormTaskRepository) UpdateWithActivity(task *models.Task, team []uint64, activity *models.Activity) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Team", "SubTasks", "Activities", "CreatedBy").Save(task).Error; err != nil {
			return err
		}

		if team != nil {
			if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskMember{}).Error; err != nil {
				return err
			}
			members := make([]models.TaskMember, len(team))
			for i, userID := range team {
				members[i] = models.TaskMember{TaskID: task.ID, UserID: userID}
			}
			if err := tx.Create(&members).Error; err != nil {
				return err
			}
		}

		activity.TaskID = task.ID
		return tx.Create(activity).Error
	})
}

// SetTrashed flips the soft-delete flag; trashing an already-trashed task is
// a no-op success.
func (r *GormTaskRepository) SetTrashed(id uint64, trashed bool) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Update("is_trashed", trashed).Error
}

// AppendSubTask appends a sub-task and its activity record atomically
func (r *GormTaskRepository) AppendSubTask(sub *models.SubTask, activity *models.Activity) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		return tx.Create(activity).Error
	})
}

// AppendActivity appends a single activity record
func (r *GormTaskRepository) AppendActivity(activity *models.Activity) error {
	return r.db.Create(activity).Error
}

// Delete permanently removes a task together with its team, sub-tasks and
// activity log. Notifications referencing the task are left in place (weak
// reference).
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.SubTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Task{}, id).Error
	})
}

// DeleteTrashed permanently removes every trashed task
func (r *GormTaskRepository) DeleteTrashed() (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint64
		if err := tx.Model(&models.Task{}).Where("is_trashed = ?", true).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("task_id IN ?", ids).Delete(&models.TaskMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id IN ?", ids).Delete(&models.SubTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id IN ?", ids).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Where("id IN ?", ids).Delete(&models.Task{})
		removed = res.RowsAffected
		return res.Error
	})
	return removed, err
}

// RestoreTrashed untrashes every trashed task; non-trashed tasks are left
// untouched.
func (r *GormTaskRepository) RestoreTrashed() (int64, error) {
	res := r.db.Model(&models.Task{}).
		Where("is_trashed = ?", true).
		Update("is_trashed", false)
	return res.RowsAffected, res.Error
}
