package loader

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/theshubhamgundu/sahaaya/internal/handler/dto"
)

// Request kinds accepted in a request file
const (
	KindDistress         = "Distress"
	KindSupport          = "Support"
	KindLegal            = "Legal"
	KindGesture          = "Gesture"
	KindSignResponse     = "SignResponse"
	KindEmotionalSupport = "EmotionalSupport"
)

var kinds = []string{KindDistress, KindSupport, KindLegal, KindGesture, KindSignResponse, KindEmotionalSupport}

// RequestFile is a flow request loaded from a YAML or JSON file
type RequestFile struct {
	// Kind selects the flow the request is posted to
	Kind string `json:"kind"`
	// Spec contains the request fields
	Spec RequestSpec `json:"spec"`

	dir string
}

// RequestSpec is the union of all flow request fields
type RequestSpec struct {
	// Distress, EmotionalSupport
	UserInput string `json:"userInput,omitempty"`

	// Support
	Situation              string `json:"situation,omitempty"`
	EmotionalState         string `json:"emotionalState,omitempty"`
	LegalInformationNeeded bool   `json:"legalInformationNeeded,omitempty"`
	InputLanguage          string `json:"inputLanguage,omitempty"`

	// Legal
	SituationDescription string `json:"situationDescription,omitempty"`

	// Gesture: either a ready data URI or an image path relative to the file
	GestureImageURI string `json:"gestureImageUri,omitempty"`
	ImageFile       string `json:"imageFile,omitempty"`

	// SignResponse
	InterpretedGestureText string `json:"interpretedGestureText,omitempty"`
	ConversationContext    string `json:"conversationContext,omitempty"`
}

// LoadFromFile loads a request definition from a YAML or JSON file
func LoadFromFile(path string) (*RequestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	req, err := Parse(data)
	if err != nil {
		return nil, err
	}
	req.dir = filepath.Dir(path)
	return req, nil
}

// Parse decodes a request definition and checks its kind
func Parse(data []byte) (*RequestFile, error) {
	var req RequestFile
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if req.Kind == "" {
		return nil, fmt.Errorf("'kind' field is required")
	}
	for _, k := range kinds {
		if req.Kind == k {
			return &req, nil
		}
	}
	return nil, fmt.Errorf("invalid kind '%s', must be one of %s", req.Kind, strings.Join(kinds, ", "))
}

func (r *RequestFile) expect(kind string) error {
	if r.Kind != kind {
		return fmt.Errorf("request kind is '%s', expected '%s'", r.Kind, kind)
	}
	return nil
}

// ToDetectDistressRequest converts a Distress or EmotionalSupport file
func (r *RequestFile) ToDetectDistressRequest() (*dto.DetectDistressRequest, error) {
	if r.Kind != KindDistress && r.Kind != KindEmotionalSupport {
		return nil, r.expect(KindDistress)
	}
	if strings.TrimSpace(r.Spec.UserInput) == "" {
		return nil, fmt.Errorf("spec.userInput is required")
	}
	return &dto.DetectDistressRequest{UserInput: r.Spec.UserInput}, nil
}

// ToGenerateSupportRequest converts a Support file
func (r *RequestFile) ToGenerateSupportRequest() (*dto.GenerateSupportRequest, error) {
	if err := r.expect(KindSupport); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.Spec.Situation) == "" {
		return nil, fmt.Errorf("spec.situation is required")
	}
	if strings.TrimSpace(r.Spec.EmotionalState) == "" {
		return nil, fmt.Errorf("spec.emotionalState is required")
	}
	return &dto.GenerateSupportRequest{
		Situation:              r.Spec.Situation,
		EmotionalState:         r.Spec.EmotionalState,
		LegalInformationNeeded: r.Spec.LegalInformationNeeded,
		InputLanguage:          r.Spec.InputLanguage,
	}, nil
}

// ToLegalGuidanceRequest converts a Legal file
func (r *RequestFile) ToLegalGuidanceRequest() (*dto.LegalGuidanceRequest, error) {
	if err := r.expect(KindLegal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.Spec.SituationDescription) == "" {
		return nil, fmt.Errorf("spec.situationDescription is required")
	}
	return &dto.LegalGuidanceRequest{SituationDescription: r.Spec.SituationDescription}, nil
}

// ToInterpretGestureRequest converts a Gesture file. imageFile is read and
// encoded when no data URI is given.
func (r *RequestFile) ToInterpretGestureRequest() (*dto.InterpretGestureRequest, error) {
	if err := r.expect(KindGesture); err != nil {
		return nil, err
	}
	switch {
	case r.Spec.GestureImageURI != "":
		return &dto.InterpretGestureRequest{GestureImageURI: r.Spec.GestureImageURI}, nil
	case r.Spec.ImageFile != "":
		path := r.Spec.ImageFile
		if !filepath.IsAbs(path) && r.dir != "" {
			path = filepath.Join(r.dir, path)
		}
		uri, err := DataURIFromFile(path)
		if err != nil {
			return nil, err
		}
		return &dto.InterpretGestureRequest{GestureImageURI: uri}, nil
	}
	return nil, fmt.Errorf("spec.gestureImageUri or spec.imageFile is required")
}

// ToSignResponseRequest converts a SignResponse file
func (r *RequestFile) ToSignResponseRequest() (*dto.SignResponseRequest, error) {
	if err := r.expect(KindSignResponse); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.Spec.InterpretedGestureText) == "" {
		return nil, fmt.Errorf("spec.interpretedGestureText is required")
	}
	return &dto.SignResponseRequest{
		InterpretedGestureText: r.Spec.InterpretedGestureText,
		ConversationContext:    r.Spec.ConversationContext,
	}, nil
}

// DataURIFromFile reads an image and encodes it as data:<mime>;base64,<data>
func DataURIFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image %s is empty", path)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
