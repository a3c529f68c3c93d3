package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/utils"
)

const TABLE_CHANGE_SETS = "change_sets"

type DBChangeSet struct {
	Id          string           `db:"id"`
	AccountId   string           `db:"account_id"`
	AuditId     pgtype.Text      `db:"audit_id"`
	Name        string           `db:"name"`
	Description pgtype.Text      `db:"description"`
	Status      string           `db:"status"`
	ExportFiles []byte           `db:"export_files"`
	ExportHash  pgtype.Text      `db:"export_hash"`
	CreatedBy   string           `db:"created_by"`
	CreatedAt   time.Time        `db:"created_at"`
	ApprovedAt  pgtype.Timestamp `db:"approved_at"`
	ExportedAt  pgtype.Timestamp `db:"exported_at"`
	AppliedAt   pgtype.Timestamp `db:"applied_at"`
}

var SelectChangeSetColumn = utils.ColumnList[DBChangeSet]()

func AdaptChangeSet(db DBChangeSet) (models.ChangeSet, error) {
	changeSet := models.ChangeSet{
		Id:          db.Id,
		AccountId:   db.AccountId,
		Name:        db.Name,
		Description: db.Description.String,
		Status:      models.ChangeSetStatusFrom(db.Status),
		ExportHash:  db.ExportHash.String,
		CreatedBy:   db.CreatedBy,
		CreatedAt:   db.CreatedAt,
	}

	if db.AuditId.Valid {
		changeSet.AuditId = &db.AuditId.String
	}
	if db.ApprovedAt.Valid {
		changeSet.ApprovedAt = &db.ApprovedAt.Time
	}
	if db.ExportedAt.Valid {
		changeSet.ExportedAt = &db.ExportedAt.Time
	}
	if db.AppliedAt.Valid {
		changeSet.AppliedAt = &db.AppliedAt.Time
	}
	if len(db.ExportFiles) > 0 {
		if err := json.Unmarshal(db.ExportFiles, &changeSet.ExportFiles); err != nil {
			return models.ChangeSet{}, errors.Wrap(err, "unable to unmarshal export files manifest")
		}
	}

	return changeSet, nil
}

func SerializeExportFiles(files []models.ExportFile) ([]byte, error) {
	if files == nil {
		return nil, nil
	}
	serialized, err := json.Marshal(files)
	return serialized, errors.Wrap(err, "unable to marshal export files manifest")
}
