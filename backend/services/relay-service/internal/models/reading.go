package models

// Reading is one row of the water-isolation report. WorkPower is nil when the source sends null.
type Reading struct {
	ExternalID int64  `json:"ID_"`
	Quarter    string `json:"RECORDQUARTER"`
	Date       string `json:"RECORDDATE"`
	WorkPower  *int32 `json:"WORKPOWER"`
}

// ReadingBatch keeps the source order; the first element is treated as the latest reading.
type ReadingBatch []Reading

// First returns the first reading of the batch.
func (b ReadingBatch) First() (Reading, bool) {
	if len(b) == 0 {
		return Reading{}, false
	}
	return b[0], true
}
