package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vigirisco/pkg/domain"
)

type CodecSuite struct {
	suite.Suite
	codec *Codec
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecSuite))
}

func (s *CodecSuite) SetupTest() {
	s.codec = NewCodec("test-signing-key", "vigirisco")
}

func (s *CodecSuite) TestIssueAndDecodeRoundTrip() {
	tokenString, err := s.codec.Issue(42, "Maria Silva", domain.RoleAdmin, time.Hour)
	s.Require().NoError(err)
	s.NotEmpty(tokenString)

	p, err := s.codec.Decode(tokenString)
	s.Require().NoError(err)
	s.Equal(int64(42), p.SubjectID)
	s.Equal("Maria Silva", p.DisplayName)
	s.Equal(domain.RoleAdmin, p.Role)
	s.False(p.IssuedAt.IsZero())
	s.True(p.ExpiresAt.After(p.IssuedAt))
}

func (s *CodecSuite) TestDecodeExpiredToken() {
	tokenString, err := s.codec.Issue(7, "Ana", domain.RoleUser, -time.Minute)
	s.Require().NoError(err)

	_, err = s.codec.Decode(tokenString)
	s.Require().Error(err)
	s.ErrorIs(err, ErrExpiredToken)
}

func (s *CodecSuite) TestDecodeTamperedSignature() {
	tokenString, err := s.codec.Issue(7, "Ana", domain.RoleUser, time.Hour)
	s.Require().NoError(err)

	parts := strings.Split(tokenString, ".")
	s.Require().Len(parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	_, err = s.codec.Decode(tampered)
	s.Require().Error(err)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *CodecSuite) TestDecodeWrongKey() {
	other := NewCodec("another-key", "vigirisco")
	tokenString, err := other.Issue(7, "Ana", domain.RoleUser, time.Hour)
	s.Require().NoError(err)

	_, err = s.codec.Decode(tokenString)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *CodecSuite) TestDecodeMalformed() {
	for _, tokenString := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := s.codec.Decode(tokenString)
		s.ErrorIs(err, ErrInvalidToken, "token %q", tokenString)
	}
}

func (s *CodecSuite) TestDecodeRejectsUnknownRole() {
	// A token minted with a role outside {ADMIN, USER} must not authenticate.
	_, err := domain.ParseRole("SUPERUSER")
	s.Require().Error(err)
}
