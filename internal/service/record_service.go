package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/weightlog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrInvalidRecordDate 在日期不是合法的 YYYY-MM-DD 时返回
	ErrInvalidRecordDate = errors.New("invalid record date")
	// ErrInvalidWeight 在体重不为正数时返回
	ErrInvalidWeight = errors.New("invalid weight value")
)

// RecordService 负责体重记录的读写，是记录数据的唯一入口。
// 同一天最多一条记录：对已存在日期的写入覆盖原记录并保持其 ID。
type RecordService struct {
	db *gorm.DB
}

// NewRecordService 构造 RecordService
func NewRecordService(gdb *gorm.DB) *RecordService {
	return &RecordService{db: gdb}
}

// Upsert 写入某天的体重：该日期已有记录则原地覆盖 Weight/Note 并保留 ID，
// 否则生成新 UUID 创建记录。体重入库前四舍五入到一位小数。
func (s *RecordService) Upsert(date string, weight float64, note string) (*db.WeightRecord, error) {
	normalized, err := normalizeDate(date)
	if err != nil {
		return nil, ErrInvalidRecordDate
	}
	if weight <= 0 {
		return nil, ErrInvalidWeight
	}

	record := db.WeightRecord{
		Date:   normalized,
		Weight: Round1(weight),
		Note:   strings.TrimSpace(note),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing db.WeightRecord
		findErr := tx.Where("date = ?", normalized).First(&existing).Error
		switch {
		case findErr == nil:
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			return tx.Save(&record).Error
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			record.ID = uuid.NewString()
			return tx.Create(&record).Error
		default:
			return findErr
		}
	})
	if err != nil {
		return nil, fmt.Errorf("upsert record: %w", err)
	}

	return &record, nil
}

// Delete 按 ID 删除记录，记录不存在时静默返回。
func (s *RecordService) Delete(id string) error {
	if err := s.db.Delete(&db.WeightRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// List 返回全部记录，按日期降序（最新在前）。
// 空库返回空切片而非 nil，序列化为 [] 而不是 null。
func (s *RecordService) List() ([]db.WeightRecord, error) {
	records := make([]db.WeightRecord, 0)
	if err := s.db.Order("date DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// ListRange 返回指定时间范围内的记录，按日期降序。
func (s *RecordService) ListRange(rng string, today string) ([]db.WeightRecord, error) {
	records, err := s.List()
	if err != nil {
		return nil, err
	}
	return FilterByRange(records, rng, today)
}

// ReplaceAll 以给定集合整体替换现有记录，用于导入与下载同步。
// 替换前统一修正：补齐缺失 ID、体重取一位小数、同日期保留后出现的一条。
func (s *RecordService) ReplaceAll(records []db.WeightRecord) error {
	sanitized := sanitizeRecords(records)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&db.WeightRecord{}).Error; err != nil {
			return err
		}
		if len(sanitized) == 0 {
			return nil
		}
		return tx.Create(&sanitized).Error
	})
	if err != nil {
		return fmt.Errorf("replace records: %w", err)
	}
	return nil
}

// sanitizeRecords 过滤非法条目并保证日期唯一，输入来自导入文件或远端文档。
func sanitizeRecords(records []db.WeightRecord) []db.WeightRecord {
	byDate := make(map[string]int, len(records))
	sanitized := make([]db.WeightRecord, 0, len(records))

	for _, r := range records {
		normalized, err := normalizeDate(r.Date)
		if err != nil || r.Weight <= 0 {
			continue
		}
		r.Date = normalized
		r.Weight = Round1(r.Weight)
		if strings.TrimSpace(r.ID) == "" {
			r.ID = uuid.NewString()
		}
		if idx, ok := byDate[r.Date]; ok {
			sanitized[idx] = r
			continue
		}
		byDate[r.Date] = len(sanitized)
		sanitized = append(sanitized, r)
	}

	return sanitized
}

func normalizeDate(date string) (string, error) {
	trimmed := strings.TrimSpace(date)
	parsed, err := time.Parse(DateFormat, trimmed)
	if err != nil {
		return "", err
	}
	return parsed.Format(DateFormat), nil
}
