// Package response 统一响应体与业务错误码
package response

type ResponseCode int

// 统一业务代码
const (
	Success ResponseCode = 100
)

// Response 所有接口的响应信封，HTTP 状态码始终为 200
type Response struct {
	Message string       `json:"message"`
	Code    ResponseCode `json:"code"`
	Data    any          `json:"data"`
}

type ResponseOptions func(*Response)

func WithMessage(message string) ResponseOptions {
	return func(r *Response) {
		r.Message = message
	}
}

func WithCode(code ResponseCode) ResponseOptions {
	return func(r *Response) {
		r.Code = code
	}
}

func WithData(data any) ResponseOptions {
	return func(r *Response) {
		r.Data = data
	}
}

func CustomResponse(opts ...ResponseOptions) Response {
	response := Response{}
	for _, opt := range opts {
		opt(&response)
	}
	return response
}

func SuccessResponse(data any) Response {
	return CustomResponse(WithCode(Success), WithMessage("success"), WithData(data))
}

func ErrorResponse(code ResponseCode, msg string) Response {
	return CustomResponse(WithCode(code), WithMessage(msg))
}

// FromError 将业务错误转换为响应体，校验失败时附带全部违规项
func FromError(err *BusinessError) Response {
	resp := ErrorResponse(err.Code, err.Msg)
	if len(err.Violations) > 0 {
		WithData(map[string]any{"violations": err.Violations})(&resp)
	}
	return resp
}
