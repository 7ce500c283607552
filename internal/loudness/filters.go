package loudness

const (
	yuleOrder   = 10
	butterOrder = 2
	maxOrder    = yuleOrder
)

type filterCoefficients struct {
	rate       int
	downsample int
	bYule      [yuleOrder + 1]float64
	aYule      [yuleOrder + 1]float64
	bButter    [butterOrder + 1]float64
	aButter    [butterOrder + 1]float64
}

// Equal-loudness filters per supported sample rate.
var filters = [...]filterCoefficients{
	{
		rate: 48000,
		bYule: [yuleOrder + 1]float64{0.03857599435200, -0.02160367184185, -0.00123395316851, -0.00009291677959, -0.01655260341619, 0.02161526843274, -0.02074045215285, 0.00594298065125, 0.00306428023191, 0.00012025322027, 0.00288463683916},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -3.84664617118067, 7.81501653005538, -11.34170355132042, 13.05504219327545, -12.28759895145294, 9.48293806319790, -5.87257861775999, 2.75465861874613, -0.86984376593551, 0.13919314567432},
		bButter: [butterOrder + 1]float64{0.98621192462708, -1.97242384925416, 0.98621192462708},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.97223372919527, 0.97261396931306},
	},
	{
		rate: 44100,
		bYule: [yuleOrder + 1]float64{0.05418656406430, -0.02911007808948, -0.00848709379851, -0.00851165645469, -0.00834990904936, 0.02245293253339, -0.02596338512915, 0.01624864962975, -0.00240879051584, 0.00674613682247, -0.00187763777362},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -3.47845948550071, 6.36317777566148, -8.54751527471874, 9.47693607801280, -8.81498681370155, 6.85401540936998, -4.39470996079559, 2.19611684890774, -0.75104302451432, 0.13149317958808},
		bButter: [butterOrder + 1]float64{0.98500175787242, -1.97000351574484, 0.98500175787242},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.96977855582618, 0.97022847566350},
	},
	{
		rate: 37800,
		bYule: [yuleOrder + 1]float64{0.10296717174470, -0.04877975583256, -0.02878009075237, -0.03519509188311, 0.02888717172493, -0.00609872684844, 0.00209851217112, 0.00911704668543, 0.01154404718589, -0.00630293688700, 0.00107527155228},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -2.64848054923531, 3.58406058405771, -3.83794914179161, 3.90142345804575, -3.50179818637243, 2.67085284083076, -1.82581142372418, 1.09530368139801, -0.47689017820395, 0.11171431535905},
		bButter: [butterOrder + 1]float64{0.98252400815195, -1.96504801630391, 0.98252400815195},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.96474258269041, 0.96535344991740},
	},
	{
		rate: 36000,
		bYule: [yuleOrder + 1]float64{0.11572297028613, -0.04120916051252, -0.04977731768022, -0.01047308680426, 0.00750863219157, 0.00055507694408, 0.00140344192886, 0.01286095246036, 0.00998223033885, -0.00725013810661, 0.00326503346879},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -2.43606802820871, 3.01907406973844, -2.90372016038192, 2.67947188094303, -2.17606479220391, 1.44912956803015, -0.87785765549050, 0.53592202672557, -0.26469344817509, 0.07495878059717},
		bButter: [butterOrder + 1]float64{0.98165826840326, -1.96331653680652, 0.98165826840326},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.96298008938934, 0.96365298422371},
	},
	{
		rate: 32000,
		bYule: [yuleOrder + 1]float64{0.15457299681924, -0.09331049056315, -0.06247880153653, 0.02163541888798, -0.05588393329856, 0.04781476674921, 0.00222312597743, 0.03174092540049, -0.01390589421898, 0.00651420667831, -0.00881362733839},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -2.37898834973084, 2.84868151156327, -2.64577170229825, 2.23697657451713, -1.67148153367602, 1.00595954808547, -0.45953458054983, 0.16378164858596, -0.05032077717131, 0.02347897407020},
		bButter: [butterOrder + 1]float64{0.97938932735214, -1.95877865470428, 0.97938932735214},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.95835380975398, 0.95920349965459},
	},
	{
		rate: 28000,
		bYule: [yuleOrder + 1]float64{0.23882392323383, -0.22007791534089, -0.06014581950332, 0.05004458058021, -0.03293111254977, 0.02348678189717, 0.04290549799671, -0.00938141862174, 0.00015095146303, -0.00712601540885, -0.00626520210162},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -2.06894080899139, 1.76944699577212, -0.81404732584187, 0.25418286850232, -0.30340791669762, 0.35616884070937, -0.14967310591258, -0.07024154183279, 0.11078404345174, -0.03551838002425},
		bButter: [butterOrder + 1]float64{0.97647981663949, -1.95295963327897, 0.97647981663949},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.95240635772520, 0.95351290883275},
	},
	{
		rate: 24000,
		bYule: [yuleOrder + 1]float64{0.30296907319327, -0.22613988682123, -0.08587323730772, 0.03282930172664, -0.00915702933434, -0.02364141202522, -0.00584456039913, 0.06276101321749, -0.00000828086748, 0.00205861885564, -0.02950134983287},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -1.61273165137247, 1.07977492259970, -0.25656257754070, -0.16276719120440, -0.22638893773906, 0.39120800788284, -0.22138138954925, 0.04500235387352, 0.02005851806501, 0.00302439095741},
		bButter: [butterOrder + 1]float64{0.97531843204928, -1.95063686409857, 0.97531843204928},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.95002759149878, 0.95124613669835},
	},
	{
		rate: 22050,
		bYule: [yuleOrder + 1]float64{0.33642304856132, -0.25572241425570, -0.11828570177555, 0.11921148675203, -0.07834489609479, -0.00469977914380, -0.00589500224440, 0.05724228140351, 0.00832043980773, -0.01635381384540, -0.01760176568150},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -1.49858979367799, 0.87350271418188, 0.12205022308084, -0.80774944671438, 0.47854794562326, -0.12453458140019, -0.04067510197014, 0.08333755284107, -0.04237348025746, 0.02977207319925},
		bButter: [butterOrder + 1]float64{0.97316523498161, -1.94633046996323, 0.97316523498161},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.94561023566527, 0.94705070426118},
	},
	{
		rate: 18900,
		bYule: [yuleOrder + 1]float64{0.38412657295385, -0.44533729608120, 0.20426638066221, -0.28031676047946, 0.31484202614802, -0.26078311203207, 0.12925201224848, -0.01141164696062, 0.03036522115769, -0.03776339305406, 0.00692036603586},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -1.74403915585708, 1.96686095832499, -2.10081452941881, 1.90753918182846, -1.83814263754422, 1.36971352214969, -0.77883609116398, 0.39266422457649, -0.12529383592986, 0.05424760697665},
		bButter: [butterOrder + 1]float64{0.96535326815829, -1.93070653631658, 0.96535326815829},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.92950577983524, 0.93190729279793},
	},
	{
		rate: 16000,
		bYule: [yuleOrder + 1]float64{0.44915256608450, -0.14351757464547, -0.22784394429749, -0.01419140100551, 0.04078262797139, -0.12398163381748, 0.04097565135648, 0.10478503600251, -0.01863887810927, -0.03193428438915, 0.00541907748707},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -0.62820619233671, 0.29661783706366, -0.37256372942400, 0.00213767857124, -0.42029820170918, 0.22199650564824, 0.00613424350682, 0.06747620744683, 0.05784820375801, 0.03222754072173},
		bButter: [butterOrder + 1]float64{0.96454515552826, -1.92909031105652, 0.96454515552826},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.92783286977036, 0.93034775234268},
	},
	{
		rate: 12000,
		bYule: [yuleOrder + 1]float64{0.56619470757641, -0.75464456939302, 0.16242137742230, 0.16744243493672, -0.18901604199609, 0.30931782841830, -0.27562961986224, 0.00647310677246, 0.08647503780351, -0.03788984554840, -0.00588215443421},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -1.04800335126349, 0.29156311971249, -0.26806001042947, 0.00819999645858, 0.45054734505008, -0.33032403314006, 0.06739368333110, -0.04784254229033, 0.01639907836189, 0.01807364323573},
		bButter: [butterOrder + 1]float64{0.96009142950541, -1.92018285901082, 0.96009142950541},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.91858953033784, 0.92177618768381},
	},
	{
		rate: 11025,
		bYule: [yuleOrder + 1]float64{0.58100494960553, -0.53174909058578, -0.14289799034253, 0.17520704835522, 0.02377945217615, 0.15558449135573, -0.25344790059353, 0.01628462406333, 0.06920467763959, -0.03721611395801, -0.00749618797172},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -0.51035327095184, -0.31863563325245, -0.20256413484477, 0.14728154134330, 0.38952639978999, -0.23313271880868, -0.05246019024463, -0.02505961724053, 0.02442357316099, 0.01818801111503},
		bButter: [butterOrder + 1]float64{0.95856916599601, -1.91713833199203, 0.95856916599601},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.91542108074780, 0.91885558323625},
	},
	{
		rate: 8000,
		bYule: [yuleOrder + 1]float64{0.53648789255105, -0.42163034350696, -0.00275953611929, 0.04267842219415, -0.10214864179676, 0.14590772289388, -0.02459864859345, -0.11202315195388, -0.04060034127000, 0.04788665548180, -0.02217936801134},
		aYule: [yuleOrder + 1]float64{1.00000000000000, -0.25049871956020, -0.43193942311114, -0.03424681017675, -0.04678328784242, 0.26408300200955, 0.15113130533216, -0.17556493366449, -0.18823009262115, 0.05477720428674, 0.04704409688120},
		bButter: [butterOrder + 1]float64{0.94597685600279, -1.89195371200558, 0.94597685600279},
		aButter: [butterOrder + 1]float64{1.00000000000000, -1.88903307939452, 0.89487434461664},
	},
}
