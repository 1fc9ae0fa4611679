package usecase_test

import (
	"errors"

	outreachdomain "outreach-backend/internal/outreach/domain"
	"outreach-backend/internal/outreach/usecase"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ReplyFieldResolver", func() {
	var resolver *usecase.ReplyFieldResolver

	BeforeEach(func() {
		resolver = usecase.NewReplyFieldResolver()
	})

	It("returns an empty set for no rows", func() {
		replied, err := resolver.RepliedSet("acct-1", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(replied).To(BeEmpty())
	})

	It("picks the first candidate that yields data", func() {
		rows := []outreachdomain.ReplyRow{
			{"contact_email": nil, "to": "", "recipient_email": "B@x.com", "replied": "true"},
			{"recipient_email": "c@x.com", "replied": false},
		}

		replied, err := resolver.RepliedSet("acct-1", rows)
		Expect(err).NotTo(HaveOccurred())
		Expect(replied).To(HaveKey("b@x.com"))
		Expect(replied).NotTo(HaveKey("c@x.com"))

		field, ok := resolver.SelectedField("acct-1")
		Expect(ok).To(BeTrue())
		Expect(field).To(Equal("recipient_email"))
	})

	It("prefers higher priority fields", func() {
		rows := []outreachdomain.ReplyRow{
			{"contact_email": "a@x.com", "email": "other@x.com", "replied": 1},
		}

		replied, err := resolver.RepliedSet("acct-1", rows)
		Expect(err).NotTo(HaveOccurred())
		Expect(replied).To(HaveKey("a@x.com"))
		Expect(replied).To(HaveLen(1))
	})

	It("keeps selections per account", func() {
		_, err := resolver.RepliedSet("acct-1", []outreachdomain.ReplyRow{{"to": "a@x.com", "replied": true}})
		Expect(err).NotTo(HaveOccurred())
		_, err = resolver.RepliedSet("acct-2", []outreachdomain.ReplyRow{{"email": "a@x.com", "replied": true}})
		Expect(err).NotTo(HaveOccurred())

		first, _ := resolver.SelectedField("acct-1")
		second, _ := resolver.SelectedField("acct-2")
		Expect(first).To(Equal("to"))
		Expect(second).To(Equal("email"))
	})

	It("re-probes when the cached field stops yielding data", func() {
		_, err := resolver.RepliedSet("acct-1", []outreachdomain.ReplyRow{{"to": "a@x.com", "replied": true}})
		Expect(err).NotTo(HaveOccurred())

		replied, err := resolver.RepliedSet("acct-1", []outreachdomain.ReplyRow{{"contact_email": "b@x.com", "replied": "yes"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(replied).To(HaveKey("b@x.com"))

		field, _ := resolver.SelectedField("acct-1")
		Expect(field).To(Equal("contact_email"))
	})

	It("reports a schema mismatch when no candidate resolves", func() {
		_, err := resolver.RepliedSet("acct-1", []outreachdomain.ReplyRow{{"target": "a@x.com", "replied": true}})
		Expect(errors.Is(err, outreachdomain.ErrSchemaMismatch)).To(BeTrue())

		_, ok := resolver.SelectedField("acct-1")
		Expect(ok).To(BeFalse())
	})

	DescribeTable("replied flag values",
		func(value interface{}, expected bool) {
			replied, err := resolver.RepliedSet("acct-1", []outreachdomain.ReplyRow{{"contact_email": "a@x.com", "replied": value}})
			Expect(err).NotTo(HaveOccurred())
			if expected {
				Expect(replied).To(HaveKey("a@x.com"))
			} else {
				Expect(replied).To(BeEmpty())
			}
		},
		Entry("bool true", true, true),
		Entry("bool false", false, false),
		Entry("string t", "t", true),
		Entry("string TRUE", " TRUE ", true),
		Entry("string no", "no", false),
		Entry("int64 one", int64(1), true),
		Entry("int64 zero", int64(0), false),
		Entry("missing", nil, false),
	)
})
