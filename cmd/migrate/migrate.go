package main

import (
	"englishtalk/domain"
	"englishtalk/pkg/log"
)

func main() {
	app, err := InitializeApp()
	if err != nil {
		panic(err)
	}
	if app.db == nil {
		panic("mysql.dsn is not set, nothing to migrate")
	}
	if err := app.db.DB.AutoMigrate(&domain.TeacherAvatar{}); err != nil {
		panic(err)
	}
	app.logger.Info("migrated", log.String("table", "teacher_avatars"))
}
