package http

import "net/http"

var (
	Failed                        = failed(500, http.StatusInternalServerError, "Request failed")
	RequestParameterParsingFailed = failed(5001, http.StatusBadRequest, "Request parameter parsing failed")
	TeamIdIsEmpty                 = failed(5002, http.StatusBadRequest, "Team id is empty")
	ExternalServiceFailed         = failed(5003, http.StatusBadGateway, "External service failed")

	// Unauthorized 401
	Unauthorized         = failed(4401, http.StatusUnauthorized, "Unauthorized")
	AuthenticationFailed = failed(4402, http.StatusUnauthorized, "Authentication failed")
	InvalidToken         = failed(4405, http.StatusUnauthorized, "Invalid token")
	TokenBeEmpty         = failed(4406, http.StatusUnauthorized, "Token cannot be empty")
	TokenExpired         = failed(4407, http.StatusUnauthorized, "Token is expired")

	// BadRequest 400
	BadRequest = failed(4000, http.StatusBadRequest, "Bad request")
	NotFound   = failed(4004, http.StatusNotFound, "Not found")
	Conflict   = failed(4009, http.StatusConflict, "Conflict")

	// Forbidden 403
	Forbidden        = failed(4030, http.StatusForbidden, "Forbidden")
	PermissionDenied = failed(4031, http.StatusForbidden, "Permission denied")

	InternalError = failed(5000, http.StatusInternalServerError, "Internal error, please contact the administrator")

	UserNotExist                  = failed(4041, http.StatusUnauthorized, "User does not exist")
	UserAlreadyExist              = failed(4042, http.StatusConflict, "User already exists")
	UserIncorrectPassword         = failed(4043, http.StatusUnauthorized, "User incorrect password")
	UsernameArePasswordIsRequired = failed(4045, http.StatusBadRequest, "Username and password are required")
)

var (
	Success = success(200, "Request Success")
)

// statusByCode maps business codes to the HTTP status written with them.
var statusByCode = map[int]int{}

func failed(code, status int, msg string) *Response {
	statusByCode[code] = status
	return &Response{
		Code: code,
		Msg:  msg,
	}
}

func success(code int, msg string) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
	}
}

// StatusOf returns the HTTP status for a business code.
func StatusOf(code int) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusOK
}
