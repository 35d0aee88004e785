// Package launcher implements the host launcher's JSON-RPC plugin
// protocol: a single request arrives per invocation (via argv or stdin)
// and a single response with renderable result entries goes to stdout.
package launcher

// Methods the host can invoke on the plugin.
const (
	MethodQuery = "query"
	MethodOpen  = "open"
)

// Request is a single JSON-RPC invocation from the host.
type Request struct {
	Method     string   `json:"method"`
	Parameters []string `json:"parameters"`
}

// Param returns the first parameter, or an empty string.
func (r Request) Param() string {
	if len(r.Parameters) == 0 {
		return ""
	}
	return r.Parameters[0]
}

// RPCAction tells the host which plugin method to invoke when the user
// activates a result entry.
type RPCAction struct {
	Method     string   `json:"method"`
	Parameters []string `json:"parameters"`
}

// Result is one selectable entry in the host's result list.
// Field names follow the host's wire format.
type Result struct {
	Title         string     `json:"Title"`
	SubTitle      string     `json:"SubTitle,omitempty"`
	IcoPath       string     `json:"IcoPath,omitempty"`
	JSONRPCAction *RPCAction `json:"JsonRPCAction,omitempty"`
}

// Response is the payload written back to the host.
type Response struct {
	Result []Result `json:"result"`
}
