package api

// ViewPhase 视图数据所处阶段
type ViewPhase string

const (
	PhaseLoading ViewPhase = "loading"
	PhaseSuccess ViewPhase = "success"
	PhaseError   ViewPhase = "error"
	PhaseEmpty   ViewPhase = "empty"
)

// ViewState 渲染用的带标签状态。data 仅在 success 下非空，
// message 仅在 error 下非空，其余字段互斥。
type ViewState struct {
	Phase   ViewPhase `json:"phase"`
	Data    any       `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
}

// ViewLoading 加载中
func ViewLoading() ViewState { return ViewState{Phase: PhaseLoading} }

// ViewSuccess 有数据
func ViewSuccess(data any) ViewState { return ViewState{Phase: PhaseSuccess, Data: data} }

// ViewError 失败
func ViewError(msg string) ViewState { return ViewState{Phase: PhaseError, Message: msg} }

// ViewEmpty 成功但无内容
func ViewEmpty() ViewState { return ViewState{Phase: PhaseEmpty} }
