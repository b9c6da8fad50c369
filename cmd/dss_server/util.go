package main

import (
	"github.com/gofiber/fiber/v2"
)

const maxLimit = 1000

func paramID(ctx *fiber.Ctx) (uint, error) {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id "+ctx.Params("id"))
	}

	return uint(id), nil
}

// paging reads skip and limit query args.
func paging(ctx *fiber.Ctx) (int, int) {
	skip := ctx.QueryInt("skip", 0)
	limit := ctx.QueryInt("limit", 100)

	if skip < 0 {
		skip = 0
	}

	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	return skip, limit
}
