// Package cim maps extracted log fields onto Splunk Common Information Model
// fields. Mapping quality depends entirely on the oracle; there is no local
// fallback, an unconfigured oracle is a hard error.
package cim

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/logsense/internal/model"
	"github.com/sells-group/logsense/internal/oracle"
)

const mapPromptTemplate = `You are a Splunk CIM expert. Your task is to map a list of extracted fields from a log file to the standard fields of a specified Splunk Common Information Model (CIM).

**CIM Data Model:**
%s

**Available CIM Fields for this model:**
%s

**Extracted Fields from the log data:**
%s

**Your Instructions:**
1.  Analyze the **Extracted Fields** provided. Pay attention to the field names and their sample values.
2.  For each extracted field, find the best matching standard field from the **Available CIM Fields**.
3.  You can map multiple extracted fields to the same CIM field if appropriate (e.g., 'ip' and 'client_ip' could both map to 'src_ip').
4.  If an extracted field does not have a clear and logical mapping to any available CIM field, do not include it in your response.
5.  For each successful mapping, provide a confidence score between 0.0 and 1.0, where 1.0 represents a perfect match. The score should reflect your certainty in the mapping based on field names and values.
6.  Provide a brief "reasoning" for each mapping explaining why you chose it (e.g., "Field name 'user_ip' is a clear synonym for 'src_ip'").

**Output Format:**
Return your response as a single, valid JSON array of objects. Each object in the array represents a single mapping and must have the following structure:
{
  "field": "The name of the original extracted field",
  "cimField": "The name of the standard CIM field it maps to",
  "confidence": A float between 0.0 and 1.0,
  "reasoning": "A brief explanation for the mapping"
}

Do not include any explanatory text outside of the final JSON array.`

// ErrInvalidModel indicates an unrecognized CIM data model name.
var ErrInvalidModel = eris.New("cim: invalid CIM model")

// Mapper proposes CIM mappings via the oracle.
type Mapper struct {
	oracle oracle.Client
}

// NewMapper builds a Mapper. The oracle client may be nil; Map reports
// oracle.ErrNotConfigured in that case.
func NewMapper(client oracle.Client) *Mapper {
	return &Mapper{oracle: client}
}

// Map asks the oracle to map fields onto the named CIM model. An unknown
// model name or an unconfigured oracle is an error.
func (m *Mapper) Map(ctx context.Context, cimModel string, fields []model.ExtractedField) ([]model.CIMMapping, error) {
	available, ok := model.CIMFields[cimModel]
	if !ok {
		return nil, eris.Wrapf(ErrInvalidModel, "cim: %s", cimModel)
	}
	if m.oracle == nil {
		return nil, eris.Wrap(oracle.ErrNotConfigured, "cim: mapping requires the oracle")
	}

	availableJSON, err := json.MarshalIndent(available, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "cim: marshal available fields")
	}
	fieldsJSON, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "cim: marshal extracted fields")
	}

	prompt := fmt.Sprintf(mapPromptTemplate, cimModel, availableJSON, fieldsJSON)

	zap.L().Info("cim: requesting mapping", zap.String("model", cimModel),
		zap.Int("fields", len(fields)))

	reply, err := m.oracle.Complete(ctx, prompt)
	if err != nil {
		return nil, eris.Wrap(err, "cim: oracle completion")
	}

	mappings, err := parseMappings(reply)
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

// parseMappings decodes the oracle reply. The prompt asks for a direct JSON
// array, but models sometimes wrap it in a single-key object; both shapes are
// accepted.
func parseMappings(reply string) ([]model.CIMMapping, error) {
	cleaned := cleanReply(reply)

	var direct []model.CIMMapping
	if err := json.Unmarshal([]byte(cleaned), &direct); err == nil {
		return direct, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &wrapped); err == nil && len(wrapped) == 1 {
		for _, raw := range wrapped {
			var inner []model.CIMMapping
			if err := json.Unmarshal(raw, &inner); err == nil {
				return inner, nil
			}
		}
	}

	return nil, eris.New("cim: unparseable oracle reply")
}

// cleanReply strips markdown fences around the reply payload.
func cleanReply(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}
