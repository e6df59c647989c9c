package mocks

//go:generate sh -c "go run go.uber.org/mock/mockgen -package mockackhandler -destination ackhandler/pipeline_context.go github.com/protocol7/quincy/internal/ackhandler PipelineContext"
//go:generate sh -c "go run go.uber.org/mock/mockgen -package mockackhandler -destination ackhandler/frame_sender.go github.com/protocol7/quincy/internal/ackhandler FrameSender"
//go:generate sh -c "go run go.uber.org/mock/mockgen -package mockackhandler -destination ackhandler/ack_listener.go github.com/protocol7/quincy/internal/ackhandler AckListener"
