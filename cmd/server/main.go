package main

import "quizarena/internal/app"

// @title           QuizArena API
// @version         1.0
// @description     Бэкенд квиз-платформы: OTP-аутентификация, контент квизов, очки и лидерборд.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
