package router

import (
	"fmt"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) eventRouter(r fiber.Router, auth fiber.Handler) {
	eventGroup := r.Group("/events", auth)
	{
		eventGroup.Post("/", rt.createEvent)
		eventGroup.Get("/:eventId", rt.getEvent)
		eventGroup.Put("/:eventId", rt.updateEvent)
		eventGroup.Delete("/:eventId", rt.deleteEvent)

		// 报名
		eventGroup.Post("/:eventId/registrations", rt.register)
		eventGroup.Delete("/:eventId/registrations/:registrationId", rt.unregister)

		// 手动发送汇总到团队聊天
		eventGroup.Post("/:eventId/summary", rt.sendSummary)
	}
}

func (rt *Router) createEvent(c *fiber.Ctx) error {
	req := new(model.EventCreateReq)
	image, err := rt.readEventForm(c, req)
	if err != nil {
		return fail(c, err)
	}
	if err := rt.validate.Struct(req); err != nil {
		return fail(c, fmt.Errorf("%w: %v", errBinding, err))
	}

	event, err := rt.Services.Event.CreateEvent(c.UserContext(), userId(c), req, image)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, event)
}

func (rt *Router) getEvent(c *fiber.Ctx) error {
	eventId, err := paramId(c, "eventId")
	if err != nil {
		return fail(c, err)
	}

	event, err := rt.Services.Event.GetEventById(c.UserContext(), eventId)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, event)
}

func (rt *Router) updateEvent(c *fiber.Ctx) error {
	eventId, err := paramId(c, "eventId")
	if err != nil {
		return fail(c, err)
	}
	req := new(model.EventUpdateReq)
	image, err := rt.readEventForm(c, req)
	if err != nil {
		return fail(c, err)
	}
	if err := rt.validate.Struct(req); err != nil {
		return fail(c, fmt.Errorf("%w: %v", errBinding, err))
	}

	event, err := rt.Services.Event.UpdateEvent(c.UserContext(), userId(c), eventId, req, image)
	if err != nil {
		return fail(c, err)
	}
	return detail(c, event)
}

func (rt *Router) deleteEvent(c *fiber.Ctx) error {
	eventId, err := paramId(c, "eventId")
	if err != nil {
		return fail(c, err)
	}

	if err := rt.Services.Event.DeleteEvent(c.UserContext(), eventId, userId(c)); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

func (rt *Router) register(c *fiber.Ctx) error {
	eventId, err := paramId(c, "eventId")
	if err != nil {
		return fail(c, err)
	}
	var req model.RegisterReq
	if err := rt.bind(c, &req); err != nil {
		return fail(c, err)
	}

	reg, err := rt.Services.Registration.Register(c.UserContext(), eventId, req.FullName, userId(c))
	if err != nil {
		return fail(c, err)
	}
	return detail(c, reg)
}

func (rt *Router) unregister(c *fiber.Ctx) error {
	eventId, err := paramId(c, "eventId")
	if err != nil {
		return fail(c, err)
	}
	registrationId, err := paramId(c, "registrationId")
	if err != nil {
		return fail(c, err)
	}

	if err := rt.Services.Registration.Unregister(c.UserContext(), eventId, registrationId, userId(c)); err != nil {
		return fail(c, err)
	}
	return operation(c)
}

func (rt *Router) sendSummary(c *fiber.Ctx) error {
	eventId, err := paramId(c, "eventId")
	if err != nil {
		return fail(c, err)
	}

	if err := rt.Services.Registration.SendSummary(c.UserContext(), eventId, userId(c)); err != nil {
		return fail(c, err)
	}
	return operation(c)
}
