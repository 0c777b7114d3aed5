package client

import "context"

// GetOrCreateTestimonialLink returns the review link for an appointment,
// generating it first when none exists. The link info is always
// re-fetched after a generate instead of trusting the create response, so
// concurrent duplicate generates (the server creates at most one link per
// appointment) all converge on the same link.
func (a *API) GetOrCreateTestimonialLink(ctx context.Context, appointmentID string) (TestimonialLink, error) {
	link, err := a.TestimonialLinkInfo(ctx, appointmentID)
	if err == nil {
		return link, nil
	}
	if !IsNotFound(err) {
		return TestimonialLink{}, err
	}

	if _, err := a.GenerateTestimonialLink(ctx, appointmentID); err != nil {
		return TestimonialLink{}, err
	}
	return a.TestimonialLinkInfo(ctx, appointmentID)
}
