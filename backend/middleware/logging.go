package middleware

import (
	"log"
	"time"

	"gurukul/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func LoggingMiddleware(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Передаем управление следующему обработчику
		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		reset := "\033[0m"

		// Логируем информацию о запросе
		logger.Printf("%s %s%s%s %s %s%d%s %v",
			c.IP(),
			utils.MethodColor(method), method, reset,
			c.Path(),
			utils.StatusColor(status), status, reset,
			time.Since(start),
		)

		return err
	}
}
