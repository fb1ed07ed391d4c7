package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/personal/core/training"
)

type trainingApi struct {
	svc *training.Service
}

func registerTrainingAPI(g *echo.Group, auth *authenticator, svc *training.Service) {
	api := trainingApi{svc: svc}

	ag := g.Group("", auth.required)
	ag.GET("/students", api.students, teacherMiddleware)
	ag.GET("/dashboard", api.dashboard)
	ag.GET("/assessments", api.assessments)
	ag.POST("/assessments", api.recordAssessment, teacherMiddleware)
	ag.GET("/workouts", api.workouts)
	ag.POST("/workouts", api.logWorkout)
	ag.GET("/muscle-groups", api.muscleGroups)
}

// Handlers

func (api *trainingApi) students(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	students, err := api.svc.ListStudents(ctx.Request().Context(), sess.Identity)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *trainingApi) dashboard(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	dash, err := api.svc.Dashboard(ctx.Request().Context(), sess.Identity, bindTarget(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *trainingApi) assessments(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	history, err := api.svc.Assessments(ctx.Request().Context(), sess.Identity, bindTarget(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, history)
}

func (api *trainingApi) recordAssessment(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data training.NewAssessment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssessment")
	}
	a, err := api.svc.RecordAssessment(ctx.Request().Context(), sess.Identity, bindTarget(ctx), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *trainingApi) workouts(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	workouts, err := api.svc.Workouts(ctx.Request().Context(), sess.Identity, bindTarget(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, workouts)
}

func (api *trainingApi) logWorkout(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data training.NewWorkout
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewWorkout")
	}
	w, err := api.svc.LogWorkout(ctx.Request().Context(), sess.Identity, bindTarget(ctx), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, w)
}

func (api *trainingApi) muscleGroups(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, training.MuscleGroups)
}
