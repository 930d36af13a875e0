package client

const (
	apiPrefix = "/api"

	endpointPing = "/ping"

	// Flow endpoints
	endpointDetectDistress   = apiPrefix + "/detect-emotional-distress"
	endpointGenerateSupport  = apiPrefix + "/generate-personalized-support"
	endpointLegalGuidance    = apiPrefix + "/provide-relevant-legal-guidance"
	endpointInterpretGesture = apiPrefix + "/interpret-hand-gesture"
	endpointSignResponse     = apiPrefix + "/generate-sign-language-response"
	endpointEmotionalSupport = apiPrefix + "/emotional-support"

	// Sign conversation endpoints
	endpointSignInteract = apiPrefix + "/sign-language/interact"
	endpointSignSession  = apiPrefix + "/sign-language/sessions/%s" // DELETE

	// Peer chat endpoints
	endpointChatMessages = apiPrefix + "/chat/messages" // GET, POST, DELETE
	endpointChatStream   = apiPrefix + "/chat/stream"   // GET, text/event-stream

	endpointTicTacToeMove = apiPrefix + "/games/tic-tac-toe/move"
)
