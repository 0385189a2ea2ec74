package pipeline

// SampleText is a short payment-app export used for demos and smoke tests.
const SampleText = `Nov 01, 2025
06:05 pm
DEBIT ₹1,500 Paid to GTPL HATHWAY LIMITED
Nov 01, 2025
06:04 pm
CREDIT ₹1,500 Received from Dad
Oct 10, 2025
06:30 pm
DEBIT ₹7,000 Paid to Gouri Aunty
Oct 09, 2025
08:34 pm
DEBIT ₹1,101 Paid to HUNGRY BIRDS
`
