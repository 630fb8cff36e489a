package detectionHandler

import (
	"AgeGenderDetector/internal/api/detection"
	contextPkg "AgeGenderDetector/pkg/context"
	"AgeGenderDetector/pkg/handlerUtil"
	"AgeGenderDetector/pkg/log"
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
)

func (h *DetectionHandler) ProcessFrame(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req detection.ProcessFrameRequest
	if err := ctx.BodyParser(&req); err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Debug("Failed to parse process_frame body")
		return errHandler.Handle(ctx, requestID, detection.ErrMalformedRequest, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	results, err := h.detectionService.ProcessImage(c, req.Image)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_frame")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"faces":      len(results),
		}).Debug("Frame processed")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, detection.ProcessFrameResponse{
			Results: results,
		})
	}
}

// HandleWebSocket runs the pipeline on every binary message and answers
// with the same payload shape as ProcessFrame.
func (h *DetectionHandler) HandleWebSocket(c *websocket.Conn) {
	h.log.Info("Detection WebSocket client connected")
	defer h.log.Info("Detection WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	requestID, _ := c.Locals("X-Request-ID").(string)
	ctx := contextPkg.WithRequestID(context.Background(), requestID)

	for {
		if err := c.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("Detection WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		var reply interface{}
		results, err := h.detectionService.ProcessBytes(ctx, message)
		if err != nil {
			reply = detection.ErrorMessage{Error: err.Error()}
		} else {
			reply = detection.ProcessFrameResponse{Results: results}
		}

		if err := c.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(reply); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}
