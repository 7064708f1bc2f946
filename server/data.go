package server

// response defines the basic HTTP response returned by the server.
type response struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func errorResponse(msg string) response {
	return response{Error: true, Message: msg}
}
