package models

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
)

// BuiltExportFile is one tabular bulk-edit file rendered from a change set.
// The same builder backs both preview and export, so the produced file set is
// reproducible by construction.
type BuiltExportFile struct {
	Filename string
	RowCount int
	Content  []byte
}

func (f BuiltExportFile) Manifest() ExportFile {
	return ExportFile{
		Filename: f.Filename,
		RowCount: f.RowCount,
	}
}

type ExportPreview struct {
	Files []ExportFilePreview
}

type ExportFilePreview struct {
	Filename    string
	RowCount    int
	PreviewText string
}

var entityCsvLabels = map[EntityType]string{
	EntityTypeCampaign:                "Campaign",
	EntityTypeAdGroup:                 "Ad group",
	EntityTypeKeyword:                 "Keyword",
	EntityTypeNegativeKeywordCampaign: "Campaign negative keyword",
	EntityTypeNegativeKeywordAdGroup:  "Ad group negative keyword",
	EntityTypeAd:                      "Ad",
	EntityTypeAsset:                   "Asset",
}

type exportGroupKey struct {
	entityType EntityType
	actionType ActionType
}

func (k exportGroupKey) filename() string {
	return fmt.Sprintf("%s_%s.csv", k.entityType, k.actionType)
}

// BuildExportFiles renders the bulk-edit file set for a list of decisions,
// one file per entity type and action type pair. The output is deterministic
// for a given input set: files are ordered by filename, rows by entity id
// then decision id, attribute columns by name. No timestamps go into rows.
func BuildExportFiles(decisions []Decision) ([]BuiltExportFile, error) {
	groups := make(map[exportGroupKey][]Decision)
	for _, decision := range decisions {
		key := exportGroupKey{
			entityType: decision.EntityType,
			actionType: decision.ActionType,
		}
		groups[key] = append(groups[key], decision)
	}

	keys := make([]exportGroupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].filename() < keys[j].filename()
	})

	files := make([]BuiltExportFile, 0, len(keys))
	for _, key := range keys {
		file, err := buildExportFile(key, groups[key])
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func buildExportFile(key exportGroupKey, decisions []Decision) (BuiltExportFile, error) {
	slices.SortFunc(decisions, func(a, b Decision) int {
		if a.EntityId != b.EntityId {
			if a.EntityId < b.EntityId {
				return -1
			}
			return 1
		}
		if a.Id < b.Id {
			return -1
		} else if a.Id > b.Id {
			return 1
		}
		return 0
	})

	attrValues := make([]map[string]any, len(decisions))
	attrColumns := make([]string, 0)
	seen := make(map[string]bool)
	for i, decision := range decisions {
		values := make(map[string]any)
		if len(decision.AfterValue) > 0 {
			if err := json.Unmarshal(decision.AfterValue, &values); err != nil {
				return BuiltExportFile{}, errors.Wrapf(err,
					"invalid after value on decision %s", decision.Id)
			}
		}
		attrValues[i] = values
		for name := range values {
			if !seen[name] {
				seen[name] = true
				attrColumns = append(attrColumns, name)
			}
		}
	}
	sort.Strings(attrColumns)

	label := entityCsvLabels[key.entityType]
	header := append([]string{"Action", label + " ID", label + " name"}, attrColumns...)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return BuiltExportFile{}, errors.Wrap(err, "writing export header")
	}
	for i, decision := range decisions {
		record := []string{string(decision.ActionType), decision.EntityId, decision.EntityName}
		for _, name := range attrColumns {
			record = append(record, formatCsvValue(attrValues[i][name]))
		}
		if err := w.Write(record); err != nil {
			return BuiltExportFile{}, errors.Wrap(err, "writing export row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return BuiltExportFile{}, errors.Wrap(err, "flushing export file")
	}

	return BuiltExportFile{
		Filename: key.filename(),
		RowCount: len(decisions),
		Content:  buf.Bytes(),
	}, nil
}

func formatCsvValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		serialized, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(serialized)
	}
}

// ExportContentHash fingerprints the concatenated file contents in manifest
// order. It is the integrity hash stored on the change set: downloaded bytes
// that drift from the recorded export no longer match it.
func ExportContentHash(files []BuiltExportFile) string {
	h := sha256.New()
	for _, file := range files {
		h.Write(file.Content)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func ExportArtifactKey(changeSetId string) string {
	return fmt.Sprintf("change-sets/%s/export.zip", changeSetId)
}

func ExportArtifactFilename(changeSetName string) string {
	return fmt.Sprintf("%s_export.zip", changeSetName)
}
