package router

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/go-arcade/quizhub/internal/engine/model"
	"github.com/gofiber/fiber/v2"
)

const imageField = "image"

// 不带时区的时间按服务时区解析
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

type formValues map[string][]string

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// readEventForm decodes a multipart or JSON event body into req. The
// image is only available in multipart requests.
func (rt *Router) readEventForm(c *fiber.Ctx, req any) (*multipart.FileHeader, error) {
	if !isMultipart(c) {
		if err := c.BodyParser(req); err != nil {
			return nil, fmt.Errorf("%w: %v", errBinding, err)
		}
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBinding, err)
	}
	v := formValues(form.Value)
	switch r := req.(type) {
	case *model.EventCreateReq:
		err = v.decodeCreate(r, rt.loc)
	case *model.EventUpdateReq:
		err = v.decodeUpdate(r, rt.loc)
	default:
		err = fmt.Errorf("unsupported form target %T", req)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBinding, err)
	}

	if files := form.File[imageField]; len(files) > 0 {
		return files[0], nil
	}
	return nil, nil
}

func (v formValues) decodeCreate(req *model.EventCreateReq, loc *time.Location) error {
	var err error
	if s := v.str("name"); s != nil {
		req.Name = *s
	}
	if s := v.str("location"); s != nil {
		req.Location = *s
	}
	dt, err := v.time("dateTime", loc)
	if err != nil {
		return err
	}
	if dt != nil {
		req.DateTime = *dt
	}
	if s := v.str("teamId"); s != nil {
		if req.TeamId, err = strconv.ParseUint(*s, 10, 64); err != nil {
			return fmt.Errorf("invalid teamId %q", *s)
		}
	}
	req.Description = v.str("description")
	req.AlbumLink = v.str("albumLink")
	req.Result = v.str("result")
	req.Price = v.str("price")

	if req.RegistrationOpen, err = v.bool("registrationOpen"); err != nil {
		return err
	}
	if req.Hidden, err = v.bool("hidden"); err != nil {
		return err
	}
	req.RegistrationLimit, err = v.int("registrationLimit")
	return err
}

func (v formValues) decodeUpdate(req *model.EventUpdateReq, loc *time.Location) error {
	var err error
	req.Name = v.str("name")
	req.Location = v.str("location")
	req.Description = v.str("description")
	req.AlbumLink = v.str("albumLink")
	req.Result = v.str("result")
	req.Price = v.str("price")

	if req.DateTime, err = v.time("dateTime", loc); err != nil {
		return err
	}
	if req.RegistrationOpen, err = v.bool("registrationOpen"); err != nil {
		return err
	}
	if req.Hidden, err = v.bool("hidden"); err != nil {
		return err
	}
	req.RegistrationLimit, err = v.int("registrationLimit")
	return err
}

// str returns nil when the field is absent.
func (v formValues) str(key string) *string {
	vals, ok := v[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	s := strings.TrimSpace(vals[0])
	return &s
}

func (v formValues) bool(key string) (*bool, error) {
	s := v.str(key)
	if s == nil || *s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(*s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, *s)
	}
	return &b, nil
}

func (v formValues) int(key string) (*int, error) {
	s := v.str(key)
	if s == nil || *s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(*s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, *s)
	}
	return &n, nil
}

func (v formValues) time(key string, loc *time.Location) (*time.Time, error) {
	s := v.str(key)
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDateTime(*s, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, *s)
	}
	return &t, nil
}

func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date time %q", s)
}
