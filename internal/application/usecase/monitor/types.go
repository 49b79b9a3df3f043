package monitor

import (
	"encoding/json"

	"pmwatch/internal/application/port"
	"pmwatch/internal/domain/model"
)

type (
	Repository     = port.ActivityRepository
	ActivitySource = port.ActivitySource
	Publisher      = port.ActivityPublisher
)

const DefaultLimit = 25

// Document is the machine readable result consumed by automation pipelines.
type Document struct {
	HasNewActivity bool              `json:"hasNewActivity"`
	Count          int               `json:"count"`
	Activities     []json.RawMessage `json:"activities"`
	PossibleGap    bool              `json:"possibleGap"`
}

func NewDocument(res *model.CheckResult) Document {
	doc := Document{Activities: []json.RawMessage{}}
	if res == nil {
		return doc
	}
	for i := range res.Activities {
		doc.Activities = append(doc.Activities, res.Activities[i].Payload())
	}
	doc.Count = len(doc.Activities)
	doc.HasNewActivity = doc.Count > 0
	doc.PossibleGap = res.PossibleGap
	return doc
}
