package controllers

import (
	"errors"
	"fmt"
	"log"
	"maestro/src/db"
	"maestro/src/lib"
	"maestro/src/lib/mailer"
	"maestro/src/models"
	"maestro/src/types"
	"maestro/src/utils"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	db := db.GetDb()
	var muser models.User
	if err = db.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		First(&muser).
		Error; err != nil {
		log.Printf("error: %s\n", err.Error())
		return nil, http.StatusNotFound, err
	}

	signed, err := utils.GenerateJWT(&muser)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", muser.ID, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	return &signed, http.StatusOK, nil
}

func AuthRegister(ctx *gin.Context) (uid *string, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	db := db.GetDb()
	newUser := models.User{
		Email: body.Email,
		UID:   uuid.NewString(),
		Role:  types.ROLE_VIEWER,
		Name:  body.Name,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		var muser models.User
		if err := tx.
			Model(&models.User{}).
			Select("id").
			Where("email = ?", body.Email).
			First(&muser).
			Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("could not complete transaction")
			}
		}
		if muser.ID > 0 {
			err := errors.New("user is already registered in the system. Please proceed to Log In")
			log.Printf("error: %s\n", err.Error())
			return err
		}

		if err := tx.Create(&newUser).Error; err != nil {
			log.Printf("Error creating user: %s\n", err.Error())
			return fmt.Errorf("error creating user: %s", body.Email)
		}
		return nil
	})
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	go func() {
		senderFrom := os.Getenv("SMTP_FROM")
		input := &lib.SendMailInput{
			Subject:  "Welcome to Maestro",
			From:     senderFrom,
			FromName: "noreply",
			To:       []string{newUser.Email},
			Body: fmt.Sprintf(`
				<p>Hi %s,</p>
				<p>Your account has been created. Start exploring upcoming performances now.</p>
				<p>This is a system-generated message. Do not reply to this email.</p>
				`,
				newUser.Name,
			),
			Html: true,
		}
		if err := mailer.NewMailerMessage(input); err != nil {
			log.Printf("[mailer] Error sending message: %s\n", err.Error())
		}
	}()

	return &newUser.UID, http.StatusOK, nil
}
