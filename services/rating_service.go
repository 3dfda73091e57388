package services

import (
	"errors"

	"github.com/findlessons/backend/database"
	"github.com/findlessons/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RateTeacher upserts the student's rating for a teacher and recomputes the
// teacher's aggregate stars in the same transaction. Teachers cannot rate.
func RateTeacher(studentID, teacherID uuid.UUID, stars int) (*models.Rating, error) {
	if stars < 0 || stars > 5 {
		return nil, validationErr("stars must be between 0 and 5")
	}

	var student models.User
	if err := database.DB.First(&student, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("student")
		}
		return nil, err
	}
	if student.Role == "teacher" {
		return nil, permissionErr("only students can rate teachers")
	}

	var rating models.Rating
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var teacher models.Teacher
		if err := tx.First(&teacher, "user_id = ?", teacherID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("teacher")
			}
			return err
		}

		err := tx.Where("student_id = ? AND teacher_id = ?", studentID, teacherID).
			First(&rating).Error
		switch {
		case err == nil:
			rating.Stars = stars
			if err := tx.Save(&rating).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating = models.Rating{StudentID: studentID, TeacherID: teacherID, Stars: stars}
			if err := tx.Create(&rating).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Raced against another upsert of the same pair.
					if err := tx.Where("student_id = ? AND teacher_id = ?", studentID, teacherID).
						First(&rating).Error; err != nil {
						return err
					}
					rating.Stars = stars
					if err := tx.Save(&rating).Error; err != nil {
						return err
					}
				} else {
					return err
				}
			}
		default:
			return err
		}

		return recomputeTeacherStars(tx, teacherID)
	})
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// UnrateTeacher deletes a rating owned by the requester and recomputes the
// mean over the remaining ratings (0 when none remain).
func UnrateTeacher(ratingID, requesterID uuid.UUID) error {
	var rating models.Rating
	if err := database.DB.First(&rating, "id = ?", ratingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundErr("rating")
		}
		return err
	}
	if rating.StudentID != requesterID {
		return permissionErr("you can only delete your own rating")
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&rating).Error; err != nil {
			return err
		}
		return recomputeTeacherStars(tx, rating.TeacherID)
	})
}

// ListRatingsByStudent returns the ratings a student has given.
func ListRatingsByStudent(studentID uuid.UUID) ([]models.Rating, error) {
	var ratings []models.Rating
	err := database.DB.Where("student_id = ?", studentID).Find(&ratings).Error
	return ratings, err
}

// recomputeTeacherStars sets teacher.stars to the mean of the persisted
// ratings, inside the caller's transaction so the aggregate never drifts from
// the rows it derives from.
func recomputeTeacherStars(tx *gorm.DB, teacherID uuid.UUID) error {
	var result struct {
		Avg float64
	}
	if err := tx.Model(&models.Rating{}).
		Where("teacher_id = ?", teacherID).
		Select("COALESCE(AVG(stars), 0) as avg").
		Scan(&result).Error; err != nil {
		return err
	}
	return tx.Model(&models.Teacher{}).
		Where("user_id = ?", teacherID).
		Update("stars", result.Avg).Error
}
