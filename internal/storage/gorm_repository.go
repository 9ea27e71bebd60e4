package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"intern-match-go/internal/storage/models"
	"intern-match-go/internal/tracing"
	"intern-match-go/internal/types"
)

// 确保 GormRepository 实现了 Repository 接口
var _ Repository = (*GormRepository)(nil)

// GormRepository 基于 gorm 的仓储，MySQL 与 PostgreSQL 共用。
// 带事件的写操作在同一事务内写入 outbox_messages。
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository 包装一个已经完成迁移的 gorm 连接
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// DB 返回 gorm 连接，outbox 中继使用
func (r *GormRepository) DB() *gorm.DB {
	return r.db
}

// Close 关闭底层连接
func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return sqlDB.Close()
}

// translate 把 gorm 错误转换成领域错误
func translate(err error, op, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return types.NewNotFoundError(op, entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return types.NewConflictError(op, entity, id)
	default:
		return fmt.Errorf("%s 失败: %w", op, err)
	}
}

// writeOutbox 在事务内追加一条待投递事件
func writeOutbox(tx *gorm.DB, evt *Event) error {
	if evt == nil {
		return nil
	}
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}
	msg := &models.OutboxMessage{
		AggregateID:      evt.AggregateID,
		EventType:        evt.EventType,
		Payload:          string(payload),
		TargetExchange:   evt.Exchange,
		TargetRoutingKey: evt.RoutingKey,
		Status:           models.OutboxStatusPending,
	}
	if err := tx.Create(msg).Error; err != nil {
		return fmt.Errorf("写入outbox失败: %w", err)
	}
	return nil
}

func (r *GormRepository) CreateUser(ctx context.Context, user *types.User) error {
	err := r.db.WithContext(ctx).Create(models.FromUser(user)).Error
	return translate(err, "CreateUser", "user", user.Username)
}

func (r *GormRepository) GetUser(ctx context.Context, id string) (*types.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err, "GetUser", "user", id)
	}
	return m.ToDomain(), nil
}

func (r *GormRepository) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, translate(err, "GetUserByUsername", "username", username)
	}
	return m.ToDomain(), nil
}

func (r *GormRepository) SaveResume(ctx context.Context, resume *types.Resume, analysis *types.ResumeAnalysis, evt *Event) error {
	ctx, span := dbTracer.Start(ctx, "GormRepository.SaveResume", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("resume.id", resume.ID),
		attribute.Bool("resume.with_analysis", analysis != nil),
	)

	resumeModel, err := models.FromResume(resume)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return fmt.Errorf("转换简历记录失败: %w", err)
	}
	var analysisModel *models.ResumeAnalysis
	if analysis != nil {
		if analysisModel, err = models.FromResumeAnalysis(analysis); err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeInternal)
			return fmt.Errorf("转换分析记录失败: %w", err)
		}
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(resumeModel).Error; err != nil {
			return err
		}
		if analysisModel != nil {
			if err := tx.Create(analysisModel).Error; err != nil {
				return err
			}
		}
		return writeOutbox(tx, evt)
	})
	if err != nil {
		err = translate(err, "SaveResume", "resume", resume.ID)
		tracing.RecordError(span, err, tracing.ClassifyError(err, tracing.ErrorTypeDB))
		return err
	}
	return nil
}

func (r *GormRepository) GetResume(ctx context.Context, id string) (*types.Resume, error) {
	var m models.Resume
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err, "GetResume", "resume", id)
	}
	return m.ToDomain(), nil
}

func (r *GormRepository) ListResumesByUser(ctx context.Context, userID string) ([]types.Resume, error) {
	var rows []models.Resume
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "ListResumesByUser", "user", userID)
	}
	out := make([]types.Resume, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

func (r *GormRepository) GetAnalysis(ctx context.Context, resumeID, internshipID string) (*types.ResumeAnalysis, error) {
	q := r.db.WithContext(ctx).Where("resume_id = ?", resumeID)
	if internshipID != "" {
		q = q.Where("internship_id = ?", internshipID)
	}
	var m models.ResumeAnalysis
	if err := q.Order("created_at ASC").First(&m).Error; err != nil {
		return nil, translate(err, "GetAnalysis", "resume_analysis", resumeID)
	}
	return m.ToDomain(), nil
}

func (r *GormRepository) UpsertInternship(ctx context.Context, internship *types.Internship) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Internship
		order := int64(0)
		err := tx.Select("id", "catalog_order").Where("id = ?", internship.ID).First(&existing).Error
		switch {
		case err == nil:
			order = existing.CatalogOrder
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 新岗位排在目录末尾
			var last int64
			if err := tx.Model(&models.Internship{}).Select("COALESCE(MAX(catalog_order), 0)").Scan(&last).Error; err != nil {
				return err
			}
			order = last + 1
		default:
			return err
		}

		m, err := models.FromInternship(internship, order)
		if err != nil {
			return err
		}
		return tx.Save(m).Error
	})
	return translate(err, "UpsertInternship", "internship", internship.ID)
}

func (r *GormRepository) GetInternship(ctx context.Context, id string) (*types.Internship, error) {
	var m models.Internship
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err, "GetInternship", "internship", id)
	}
	return m.ToDomain(), nil
}

func (r *GormRepository) ListActiveInternships(ctx context.Context) ([]types.Internship, error) {
	var rows []models.Internship
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("catalog_order ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "ListActiveInternships", "internship", "")
	}
	out := make([]types.Internship, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

func (r *GormRepository) CreateApplication(ctx context.Context, app *types.Application, evt *Event) error {
	ctx, span := dbTracer.Start(ctx, "GormRepository.CreateApplication", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("application.id", app.ID),
		attribute.String("application.internship_id", app.InternshipID),
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.FromApplication(app)).Error; err != nil {
			return err
		}
		return writeOutbox(tx, evt)
	})
	if err != nil {
		err = translate(err, "CreateApplication", "application", app.ID)
		tracing.RecordError(span, err, tracing.ClassifyError(err, tracing.ErrorTypeDB))
		return err
	}
	return nil
}

func (r *GormRepository) GetApplication(ctx context.Context, id string) (*types.Application, error) {
	var m models.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err, "GetApplication", "application", id)
	}
	return m.ToDomain(), nil
}

func (r *GormRepository) ListApplicationsByUser(ctx context.Context, userID string) ([]types.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("applied_at DESC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "ListApplicationsByUser", "user", userID)
	}
	out := make([]types.Application, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

func (r *GormRepository) UpdateApplicationStatus(ctx context.Context, id string, status types.ApplicationStatus, updatedAt time.Time, evt *Event) (*types.Application, error) {
	var m models.Application
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			return err
		}
		m.Status = string(status)
		m.UpdatedAt = updatedAt
		if err := tx.Model(&models.Application{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":     m.Status,
			"updated_at": m.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		return writeOutbox(tx, evt)
	})
	if err != nil {
		return nil, translate(err, "UpdateApplicationStatus", "application", id)
	}
	return m.ToDomain(), nil
}
