// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const otpExpiry = 10 * time.Minute

func GenerateSecureOTP() (string, error) {
	// Generate 6 random bytes
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	// Convert to base32 string
	return base32.StdEncoding.EncodeToString(bytes)[:6], nil
}

// StoreOTP keeps the OTP in redis for the expiry window, keyed by email
func StoreOTP(redisClient *redis.Client, email, otp string) error {
	if redisClient == nil {
		return errors.New("redis client not available")
	}
	return redisClient.Set(context.Background(), "otp:"+email, otp, otpExpiry).Err()
}

// VerifyOTP checks the submitted OTP against the stored one and consumes it
// on success
func VerifyOTP(redisClient *redis.Client, email, otp string) error {
	if redisClient == nil {
		return errors.New("redis client not available")
	}

	key := "otp:" + email
	stored, err := redisClient.Get(context.Background(), key).Result()
	if err != nil {
		if err == redis.Nil {
			return errors.New("OTP expired or not found")
		}
		return err
	}
	if stored != otp {
		return errors.New("invalid OTP")
	}

	redisClient.Del(context.Background(), key)
	return nil
}

func ValidateOTPAttempts(userID string, redis *redis.Client) error {
	key := "otp_attempts:" + userID
	attempts, err := redis.Incr(context.Background(), key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		redis.Expire(context.Background(), key, 1*time.Hour)
	}

	// Limit to 5 attempts per hour
	if attempts > 5 {
		return errors.New("too many OTP attempts")
	}

	return nil
}
