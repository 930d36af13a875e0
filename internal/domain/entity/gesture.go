package entity

// GestureState tracks a single capture through interpretation
type GestureState string

const (
	GestureIdle         GestureState = "idle"
	GestureCapturing    GestureState = "capturing"
	GestureInterpreting GestureState = "interpreting"
	GestureSuccess      GestureState = "success"
	GestureFailure      GestureState = "failure"
)

// Texts the interpreter reports instead of a gesture reading.
const (
	GestureTextFailed = "Interpretation failed"
	GestureTextError  = "Interpretation error"
)

// GestureFrame is a decoded still image captured from the camera feed
type GestureFrame struct {
	MIMEType string
	Data     []byte
	URI      string
}

// GestureInterpretation is the model's reading of one frame.
// Confidence is always within [0,1].
type GestureInterpretation struct {
	GestureImageURI string
	InterpretedText string
	Confidence      float64
	Error           string
	State           GestureState
}

// Succeeded reports whether the interpretation can feed the reply flow
func (g *GestureInterpretation) Succeeded() bool {
	return g.State == GestureSuccess
}

// SignLanguageReply is the assistant's answer to an interpreted gesture
type SignLanguageReply struct {
	InterpretedGestureText string
	ConversationContext    string
	ResponseText           string
	SuggestedSignVisual    *string
	Error                  string
}

// SignTurnSender identifies who produced a sign conversation turn
type SignTurnSender string

const (
	SignTurnUser SignTurnSender = "user"
	SignTurnAI   SignTurnSender = "ai"
)

// SignTurn is one entry of a sign language session log
type SignTurn struct {
	Sender SignTurnSender
	Text   string
}

// SignInteraction is the result of the gesture -> reply chain
type SignInteraction struct {
	SessionID      string
	Interpretation *GestureInterpretation
	Reply          *SignLanguageReply
	Turns          []SignTurn
}
