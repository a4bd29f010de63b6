package datastore

import (
	"context"
	"time"

	"droppu/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableTask(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Task)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Task)(nil)).Index("index_task_name").Unique().IfNotExists().Column("name").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateTableUserTask(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.UserTask)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserTask)(nil)).Index("index_user_task_user_id_task_id").Unique().IfNotExists().Column("user_id", "task_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertTask(ctx context.Context, db bun.IDB, task *models.Task) error {
	_, err := db.NewInsert().Model(task).On("CONFLICT (name) DO NOTHING").Exec(ctx)
	return skipNoRows(err)
}

func GetTasks(ctx context.Context, db bun.IDB) ([]*models.Task, error) {
	tasks := []*models.Task{}
	err := db.NewSelect().Model(&tasks).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func FindTaskByID(ctx context.Context, db bun.IDB, taskID int64) (*models.Task, error) {
	var task models.Task
	err := db.NewSelect().Model(&task).Where("id = ?", taskID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func GetIncompleteTasks(ctx context.Context, db bun.IDB, userID int64) ([]*models.Task, error) {
	completed := db.NewSelect().
		Model((*models.UserTask)(nil)).
		Column("task_id").
		Where("user_id = ?", userID)

	tasks := []*models.Task{}
	err := db.NewSelect().
		Model(&tasks).
		Where("id NOT IN (?)", completed).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// EnsureUserTask creates the (user, task) completion record unless it already exists.
func EnsureUserTask(ctx context.Context, db bun.IDB, userTask *models.UserTask) error {
	_, err := db.NewInsert().
		Model(userTask).
		On("CONFLICT (user_id, task_id) DO NOTHING").
		Exec(ctx)
	return skipNoRows(err)
}

// MarkUserTaskRewarded stamps rewarded_at only if no earlier call did. It reports whether
// this call won the grant.
func MarkUserTaskRewarded(ctx context.Context, db bun.IDB, userID, taskID int64, now time.Time) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.UserTask)(nil)).
		Set("status = ?", models.TaskStatusCompleted).
		Set("last_completed_date = ?", now).
		Set("rewarded_at = ?", now).
		Where("user_id = ?", userID).
		Where("task_id = ?", taskID).
		Where("rewarded_at IS NULL").
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func RestampUserTask(ctx context.Context, db bun.IDB, userID, taskID int64, now time.Time) (*models.UserTask, error) {
	var userTask models.UserTask
	_, err := db.NewUpdate().
		Model(&userTask).
		Set("status = ?", models.TaskStatusCompleted).
		Set("last_completed_date = ?", now).
		Where("user_id = ?", userID).
		Where("task_id = ?", taskID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return &userTask, nil
}

func FindUserTask(ctx context.Context, db bun.IDB, userID, taskID int64) (*models.UserTask, error) {
	var userTask models.UserTask
	err := db.NewSelect().Model(&userTask).Where("user_id = ?", userID).Where("task_id = ?", taskID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &userTask, nil
}
