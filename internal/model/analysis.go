package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thep200/gitgrade/cfg"
	"github.com/thep200/gitgrade/pkg/db"
	"github.com/thep200/gitgrade/pkg/log"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Analysis là một lần phân tích đã lưu, kèm toàn bộ kết quả dạng JSON
type Analysis struct {
	Model
	GithubURL      string `json:"github_url" gorm:"column:github_url;type:varchar(512);not null;index"`
	Owner          string `json:"owner" gorm:"column:owner;type:varchar(255);not null"`
	RepoName       string `json:"repo_name" gorm:"column:repo_name;type:varchar(255);not null"`
	OverallScore   int    `json:"overall_score" gorm:"column:overall_score;default:0"`
	BaseScore      int    `json:"base_score" gorm:"column:base_score;default:0"`
	Summary        string `json:"summary" gorm:"column:summary;type:text"`
	FullJSONResult string `json:"full_json_result" gorm:"column:full_json_result;type:text"`
}

func NewAnalysis(config *cfg.Config, logger log.Logger, conn db.Connector) (*Analysis, error) {
	if conn == nil {
		return nil, errors.New("analysis model needs a database connection")
	}
	analysis := &Analysis{
		Model: Model{
			Config: config,
			Logger: logger,
			DB:     conn,
		},
	}
	return analysis, nil
}

func (a *Analysis) TableName() string {
	return "analyses"
}

func fromMessage(msg AnalysisMessage) Analysis {
	at := msg.AnalyzedAt
	if at.IsZero() {
		at = time.Now()
	}
	analysis := Analysis{
		GithubURL:      TruncateString(msg.GithubURL, 500),
		Owner:          TruncateString(msg.Owner, 250),
		RepoName:       TruncateString(msg.RepoName, 250),
		OverallScore:   msg.OverallScore,
		BaseScore:      msg.BaseScore,
		Summary:        msg.Summary,
		FullJSONResult: string(msg.Result),
	}
	analysis.CreatedAt = at
	analysis.UpdatedAt = at
	return analysis
}

// Create lưu một kết quả phân tích và trả về bản ghi đã có ID
func (a *Analysis) Create(ctx context.Context, msg AnalysisMessage) (*Analysis, error) {
	gdb, err := a.DB.Db()
	if err != nil {
		a.Logger.Error(ctx, "Failed to get database connection: %v", err)
		return nil, err
	}

	record := fromMessage(msg)
	if err := gdb.WithContext(ctx).Create(&record).Error; err != nil {
		a.Logger.Error(ctx, "Failed to create analysis: %v", err)
		return nil, err
	}

	a.Logger.Info(ctx, "Successfully created analysis with ID=%d for %s/%s", record.ID, record.Owner, record.RepoName)
	return &record, nil
}

func (a *Analysis) CreateBatch(ctx context.Context, msgs []AnalysisMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	gdb, err := a.DB.Db()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	records := make([]Analysis, 0, len(msgs))
	for _, msg := range msgs {
		records = append(records, fromMessage(msg))
	}

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(records, 100).Error; err != nil {
			return fmt.Errorf("failed to batch create analyses: %w", err)
		}
		return nil
	})
}

func (a *Analysis) FindByID(ctx context.Context, id uint) (*Analysis, error) {
	gdb, err := a.DB.Db()
	if err != nil {
		return nil, err
	}

	var record Analysis
	if err := gdb.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// List trả về một trang kết quả, mới nhất trước, cùng tổng số bản ghi khớp với search.
// search lọc theo owner, repo_name hoặc github_url (không phân biệt hoa thường).
func (a *Analysis) List(ctx context.Context, page, pageSize int, search string) ([]Analysis, int64, error) {
	gdb, err := a.DB.Db()
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	query := gdb.WithContext(ctx).Model(&Analysis{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(owner) LIKE ? OR LOWER(repo_name) LIKE ? OR LOWER(github_url) LIKE ?", like, like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	records := []Analysis{}
	if err := query.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
