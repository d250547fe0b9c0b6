package analysis

import (
	"ProjectPoseForm/internal/entity"

	jsoniter "github.com/json-iterator/go"
)

const (
	MessageTypeAnalyze = "analyze"
	FailureError       = "Analysis failed"
)

type MessageHeader struct {
	Type string `json:"type"`
}

// MessageType decodes only the type field of raw.
func MessageType(raw []byte) (string, error) {
	var header MessageHeader
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &header); err != nil {
		return "", err
	}
	return header.Type, nil
}

// ExpectsReply reports whether raw is answered at all: analyze messages and
// anything that does not decode. Other message types are ignored.
func ExpectsReply(raw []byte) bool {
	msgType, err := MessageType(raw)
	return err != nil || msgType == MessageTypeAnalyze
}

type AnalyzeRequest struct {
	Type           string                 `json:"type" validate:"required,eq=analyze"`
	Landmarks      []entity.Landmark      `json:"landmarks" validate:"required"`
	WorldLandmarks []entity.WorldLandmark `json:"worldLandmarks,omitempty"`
}

// Response is the reply to one analyze message. Exactly one of Result and
// Failure is set.
type Response struct {
	Result  *entity.FormAnalysisResult
	Failure *entity.AnalysisFailure
}

func Succeeded(result entity.FormAnalysisResult) Response {
	return Response{Result: &result}
}

func Failed(message string) Response {
	return Response{Failure: &entity.AnalysisFailure{
		Error:   FailureError,
		Message: message,
	}}
}

func (r Response) IsFailure() bool {
	return r.Failure != nil
}

// Payload is the value written back to the caller: the bare result on
// success, the error object otherwise.
func (r Response) Payload() interface{} {
	if r.Failure != nil {
		return r.Failure
	}
	return r.Result
}
