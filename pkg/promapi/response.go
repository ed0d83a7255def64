package promapi

import (
	"encoding/json"
	"fmt"

	"github.com/prometheus/common/model"
)

// Envelope status values.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// envelope is the generic response wrapper used by every API endpoint.
type envelope struct {
	Status    string          `json:"status"`
	Data      json.RawMessage `json:"data"`
	ErrorType string          `json:"errorType"`
	Error     string          `json:"error"`
	Warnings  []string        `json:"warnings"`
}

// decodeEnvelope parses a response body into an envelope. A status of
// "error" is converted into an APIError carrying the HTTP status code.
func decodeEnvelope(body []byte, statusCode int) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ParseError{RawResponse: truncateBody(body), Cause: err}
	}

	switch env.Status {
	case statusSuccess:
		return &env, nil
	case statusError:
		return nil, &APIError{
			ErrorType:  env.ErrorType,
			Message:    env.Error,
			StatusCode: statusCode,
		}
	default:
		return nil, &UnknownStatusError{Status: env.Status}
	}
}

// decodeData unmarshals the data field of a successful envelope into out.
func decodeData(env *envelope, out interface{}) error {
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &ParseError{RawResponse: truncateBody(env.Data), Cause: err}
	}
	return nil
}

// truncateBody limits raw response bodies stored in parse errors.
func truncateBody(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

// queryData is the data field of query and query_range responses.
type queryData struct {
	ResultType string          `json:"resultType"`
	Result     json.RawMessage `json:"result"`
	Stats      *QueryStats     `json:"stats,omitempty"`
}

// QueryResult holds the outcome of a query or query_range call.
// Value is one of model.Vector, model.Matrix, *model.Scalar, or
// *model.String depending on the expression.
type QueryResult struct {
	// Value is the typed query result
	Value model.Value

	// Stats holds execution statistics when they were requested
	Stats *QueryStats

	// Warnings are non-fatal messages attached by the server
	Warnings []string
}

// decodeQueryResult parses a query envelope into a QueryResult.
func decodeQueryResult(env *envelope) (*QueryResult, error) {
	var data queryData
	if err := decodeData(env, &data); err != nil {
		return nil, err
	}

	value, err := decodeResultValue(data.ResultType, data.Result)
	if err != nil {
		return nil, err
	}

	return &QueryResult{
		Value:    value,
		Stats:    data.Stats,
		Warnings: env.Warnings,
	}, nil
}

// decodeResultValue unmarshals the result field according to resultType.
func decodeResultValue(resultType string, raw json.RawMessage) (model.Value, error) {
	switch resultType {
	case model.ValVector.String():
		var v model.Vector
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, &ParseError{RawResponse: truncateBody(raw), Cause: err}
		}
		return v, nil
	case model.ValMatrix.String():
		var m model.Matrix
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, &ParseError{RawResponse: truncateBody(raw), Cause: err}
		}
		return m, nil
	case model.ValScalar.String():
		var s model.Scalar
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &ParseError{RawResponse: truncateBody(raw), Cause: err}
		}
		return &s, nil
	case model.ValString.String():
		var s model.String
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &ParseError{RawResponse: truncateBody(raw), Cause: err}
		}
		return &s, nil
	default:
		return nil, &ResultTypeError{Actual: resultType}
	}
}

// MarshalJSON encodes the result in the same shape the API returned
// it: the resultType discriminator next to the result data, with stats
// and warnings when present.
func (r *QueryResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ResultType string      `json:"resultType"`
		Result     model.Value `json:"result"`
		Stats      *QueryStats `json:"stats,omitempty"`
		Warnings   []string    `json:"warnings,omitempty"`
	}{
		ResultType: r.ResultType().String(),
		Result:     r.Value,
		Stats:      r.Stats,
		Warnings:   r.Warnings,
	})
}

// ResultType returns the type of the result value, or model.ValNone for
// an empty result.
func (r *QueryResult) ResultType() model.ValueType {
	if r == nil || r.Value == nil {
		return model.ValNone
	}
	return r.Value.Type()
}

// AsVector returns the result as an instant vector. It returns a
// ResultTypeError if the result has a different type.
func (r *QueryResult) AsVector() (model.Vector, error) {
	v, ok := r.Value.(model.Vector)
	if !ok {
		return nil, &ResultTypeError{Expected: model.ValVector.String(), Actual: r.typeName()}
	}
	return v, nil
}

// AsMatrix returns the result as a range matrix. It returns a
// ResultTypeError if the result has a different type.
func (r *QueryResult) AsMatrix() (model.Matrix, error) {
	m, ok := r.Value.(model.Matrix)
	if !ok {
		return nil, &ResultTypeError{Expected: model.ValMatrix.String(), Actual: r.typeName()}
	}
	return m, nil
}

// AsScalar returns the result as a scalar sample. It returns a
// ResultTypeError if the result has a different type.
func (r *QueryResult) AsScalar() (*model.Scalar, error) {
	s, ok := r.Value.(*model.Scalar)
	if !ok {
		return nil, &ResultTypeError{Expected: model.ValScalar.String(), Actual: r.typeName()}
	}
	return s, nil
}

// AsString returns the result as a string sample. It returns a
// ResultTypeError if the result has a different type.
func (r *QueryResult) AsString() (*model.String, error) {
	s, ok := r.Value.(*model.String)
	if !ok {
		return nil, &ResultTypeError{Expected: model.ValString.String(), Actual: r.typeName()}
	}
	return s, nil
}

// Empty reports whether the result contains no samples.
func (r *QueryResult) Empty() bool {
	switch v := r.Value.(type) {
	case model.Vector:
		return len(v) == 0
	case model.Matrix:
		return len(v) == 0
	case nil:
		return true
	default:
		return false
	}
}

// typeName names the current result type for error messages.
func (r *QueryResult) typeName() string {
	if r == nil || r.Value == nil {
		return "none"
	}
	return r.Value.Type().String()
}

// QueryStats holds query execution statistics returned when stats
// collection is requested.
type QueryStats struct {
	Timings QueryTimings `json:"timings"`
	Samples QuerySamples `json:"samples"`
}

// QueryTimings breaks down where query execution time was spent.
// All values are in seconds.
type QueryTimings struct {
	EvalTotalTime        float64 `json:"evalTotalTime"`
	ResultSortTime       float64 `json:"resultSortTime"`
	QueryPreparationTime float64 `json:"queryPreparationTime"`
	InnerEvalTime        float64 `json:"innerEvalTime"`
	ExecQueueTime        float64 `json:"execQueueTime"`
	ExecTotalTime        float64 `json:"execTotalTime"`
}

// QuerySamples reports how many samples the query touched.
type QuerySamples struct {
	TotalQueryableSamples        int64      `json:"totalQueryableSamples"`
	PeakSamples                  int64      `json:"peakSamples"`
	TotalQueryableSamplesPerStep []StepStat `json:"totalQueryableSamplesPerStep,omitempty"`
}

// StepStat is a per-step sample count encoded on the wire as a
// [timestamp, value] pair.
type StepStat struct {
	Timestamp float64
	Value     int64
}

// UnmarshalJSON decodes a [timestamp, value] pair.
func (s *StepStat) UnmarshalJSON(data []byte) error {
	var pair [2]json.Number
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}

	ts, err := pair[0].Float64()
	if err != nil {
		return fmt.Errorf("invalid step timestamp %q: %w", pair[0], err)
	}
	value, err := pair[1].Int64()
	if err != nil {
		return fmt.Errorf("invalid step value %q: %w", pair[1], err)
	}

	s.Timestamp = ts
	s.Value = value
	return nil
}

// MarshalJSON encodes the pair back to its wire form.
func (s StepStat) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{s.Timestamp, s.Value})
}
