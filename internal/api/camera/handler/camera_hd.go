package cameraHandler

import (
	"AgeGenderDetector/internal/api/camera"
	contextPkg "AgeGenderDetector/pkg/context"
	"AgeGenderDetector/pkg/handlerUtil"
	"AgeGenderDetector/pkg/log"
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (h *CameraHandler) StartCamera(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	if err := h.cameraService.Start(contextPkg.FromFiberCtx(ctx)); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "start_camera")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
}

func (h *CameraHandler) StopCamera(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	if err := h.cameraService.Stop(contextPkg.FromFiberCtx(ctx)); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "stop_camera")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
}

func (h *CameraHandler) Status(ctx *fiber.Ctx) error {
	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, camera.StatusResponse{
		Active: h.cameraService.IsActive(),
	})
}

// VideoFeed streams annotated frames as multipart/x-mixed-replace until the
// camera is stopped or the client disconnects.
func (h *CameraHandler) VideoFeed(ctx *fiber.Ctx) error {
	if !h.cameraService.IsActive() {
		return ctx.SendStatus(fiber.StatusNoContent)
	}

	requestID := h.middleware.GetRequestID(ctx)
	streamCtx := contextPkg.WithRequestID(context.Background(), requestID)

	ctx.Set(fiber.HeaderContentType, "multipart/x-mixed-replace; boundary="+camera.FrameBoundary)
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderPragma, "no-cache")

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		started := time.Now()
		frames := 0

		err := h.cameraService.Stream(streamCtx, func(jpeg []byte) error {
			frames++
			return writePart(w, jpeg)
		})

		fields := log.Fields{
			"request_id": requestID,
			"frames":     frames,
			"duration":   time.Since(started).String(),
		}
		if err != nil {
			fields["error"] = err.Error()
			h.log.WithFields(fields).Error("Video feed ended with error")
			return
		}
		h.log.WithFields(fields).Info("Video feed ended")
	})

	return nil
}

func writePart(w *bufio.Writer, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\n\r\n", camera.FrameBoundary); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	if _, err := w.WriteString("\r\n"); err != nil {
		return err
	}
	return w.Flush()
}

func (h *CameraHandler) Snapshot(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.cameraService.Snapshot(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "snapshot")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
