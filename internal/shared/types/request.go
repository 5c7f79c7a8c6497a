package types

// InvokeRequest represents a command invocation over HTTP
type InvokeRequest struct {
	Command string                 `json:"command"`
	Args    map[string]interface{} `json:"args"`
}

// IPCMessage is a command frame received on the IPC socket
type IPCMessage struct {
	ID   string                 `json:"id"`
	Cmd  string                 `json:"cmd"`
	Args map[string]interface{} `json:"args,omitempty"`
}

// IPCReply answers an IPCMessage with the same ID
type IPCReply struct {
	ID      string                 `json:"id"`
	Type    string                 `json:"type"`
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
	Kind    string                 `json:"kind,omitempty"`
}
